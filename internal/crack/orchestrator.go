package crack

import (
	"context"

	"forgecrack/internal/descriptor"
	"forgecrack/internal/ports"
	"forgecrack/internal/verify"
)

// RunConfig is everything Orchestrate needs beyond the underlying job
// Config: the host ports and whether a successful crack should also run
// the format's decrypt-and-export hook (spec §4.10 step 6).
type RunConfig struct {
	Config
	FileStore     ports.FileStore
	ArtifactStore ports.ArtifactStore
	TagStore      ports.TagStore
	Notifier      ports.Notifier
	Progress      ports.Progress
	AutoDecrypt   bool
}

// Orchestrate runs the full cracker orchestrator lifecycle (C13): build
// the candidate set, subtract already-tried passwords, launch a Job,
// then persist the outcome and notify the analyst.
func Orchestrate(ctx context.Context, cfg RunConfig) (Result, error) {
	candidates, err := BuildCandidates(ctx, cfg.FileStore, cfg.TagStore, cfg.Sources)
	if err != nil {
		return Result{}, err
	}
	candidates, err = SubtractTried(ctx, cfg.ArtifactStore, cfg.ObjectID, candidates)
	if err != nil {
		return Result{}, err
	}

	job, err := NewJob(cfg.Config, cfg.Progress)
	if err != nil {
		return Result{}, err
	}

	result := job.Run(ctx, candidates)

	kind := cfg.Descriptor.Kind()
	if kind == descriptor.KindZipCrypto || kind == descriptor.KindZipAES {
		// Persist the whole candidate set handed to this run, not just a
		// found password, so a retry's SubtractTried skips every
		// candidate already exhausted (spec §3 Lifecycle / §5) regardless
		// of whether this run found, exhausted, or was cancelled.
		if err := AppendTriedMany(ctx, cfg.ArtifactStore, cfg.ObjectID, candidates); err != nil {
			return result, err
		}
	}

	switch result.Outcome {
	case OutcomeFound:
		if err := cfg.ArtifactStore.PutAttribute(ctx, cfg.ObjectID, ports.AttrFoundPassword, result.Password); err != nil {
			return result, err
		}
		if cfg.AutoDecrypt {
			v, verr := verify.New(cfg.Descriptor)
			if verr == nil {
				if artifactPath, derr := v.Decrypt(result.Password); derr == nil {
					_ = cfg.ArtifactStore.DeleteAndReplace(ctx, cfg.ObjectID, artifactPath)
				}
			}
		}
		cfg.Notifier.Info("Password found", result.Password)
	case OutcomeCancelled:
		cfg.Notifier.Warn("Cracking cancelled", "job was cancelled before a password was found")
	case OutcomeNotFound:
		cfg.Notifier.Info("Cracking finished", "no password found among the candidates tried")
	}

	return result, nil
}
