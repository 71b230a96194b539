package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"forgecrack/internal/charset"
	"forgecrack/internal/config"
	"forgecrack/internal/crack"
	"forgecrack/internal/detect"
	"forgecrack/internal/logging"
	"forgecrack/internal/ports"
	"forgecrack/internal/tui"
)

var crackCmd = &cobra.Command{
	Use:   "crack [file]",
	Short: "Detect and attempt to recover the password of an encrypted container",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrack,
}

func init() {
	rootCmd.AddCommand(crackCmd)
	flags := crackCmd.Flags()
	flags.Int("workers", runtime.NumCPU(), "number of cracking workers")
	flags.Int("common-list-size", 0, "use the bundled common-password list of this size (10, 100, 1000)")
	flags.String("wordlist", "", "path to a plain text wordlist, one candidate per line")
	flags.Bool("letters", true, "include a-zA-Z in the brute-force charset")
	flags.Bool("digits", true, "include 0-9 in the brute-force charset")
	flags.Bool("special", true, "include common punctuation (!@#$%^&*_-) in the brute-force charset")
	flags.Bool("all-symbols", false, "include all printable ASCII punctuation in the brute-force charset")
	flags.Int("min-len", 1, "minimum brute-force password length")
	flags.Int("max-len", 0, "maximum brute-force password length (0 disables brute force)")
	flags.Bool("auto-decrypt", false, "write out a decrypted copy once the password is found, when the format supports it")
	flags.Bool("no-tui", false, "print progress as log lines instead of the interactive TUI")
	v.BindPFlags(flags)
}

func runCrack(cmd *cobra.Command, args []string) error {
	path := args[0]
	conf, err := config.BindAndLoad(v, cfgFile)
	if err != nil {
		return fmt.Errorf("crack: config: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("crack: %w", err)
	}
	found, err := detect.File(path, raw)
	if err != nil {
		return fmt.Errorf("crack: %w", err)
	}
	if len(found) == 0 {
		return fmt.Errorf("crack: no encrypted container recognized in %s", path)
	}
	target := found[0]
	if len(found) > 1 {
		log.Warnf("multiple encrypted objects found in %s; cracking the first (%s)", path, target.EntryPath)
	}

	objectID := ports.FileID(objectIDFor(path, target.EntryPath, 0))

	var sets [][]rune
	if conf.UseLetters {
		sets = append(sets, charset.Letters())
	}
	if conf.UseDigits {
		sets = append(sets, charset.Digits())
	}
	if conf.UseSpecial {
		sets = append(sets, charset.SpecialCommon())
	}
	if conf.UseAllSym {
		sets = append(sets, charset.SpecialAll())
	}
	alphabet := charset.Combine(sets...)

	if conf.Workers <= 0 {
		conf.Workers = runtime.NumCPU()
	}
	jobCfg := crack.Config{
		Descriptor: target.Descriptor,
		ObjectID:   objectID,
		Workers:    conf.Workers,
		Sources: crack.CandidateSources{
			CommonListSize: conf.CommonListSize,
		},
	}
	if conf.Wordlist != "" {
		jobCfg.Sources.UserWordlist = ports.FileID(conf.Wordlist)
	}
	if conf.MaxLen > 0 && len(alphabet) > 0 {
		jobCfg.BruteForce = crack.BruteForceConfig{
			Enabled: true,
			Charset: alphabet,
			MinLen:  conf.MinLen,
			MaxLen:  conf.MaxLen,
		}
	}

	log.WithFields(logging.JobFields(string(objectID), jobCfg.Workers)).Info("starting crack job")

	noTUI, _ := cmd.Flags().GetBool("no-tui")
	if noTUI {
		return runCrackHeadless(jobCfg, conf.AutoDecrypt)
	}
	return runCrackTUI(jobCfg, conf.AutoDecrypt)
}

func runCrackHeadless(jobCfg crack.Config, autoDecrypt bool) error {
	ctx := context.Background()
	result, err := crack.Orchestrate(ctx, crack.RunConfig{
		Config:        jobCfg,
		FileStore:     ports.NewLocalFileStore(),
		ArtifactStore: ports.NewLocalArtifactStore(),
		TagStore:      ports.NewLocalTagStore(),
		Notifier:      cliNotifier{},
		Progress:      ports.NullProgress{},
		AutoDecrypt:   autoDecrypt,
	})
	if err != nil {
		return fmt.Errorf("crack: %w", err)
	}
	printResult(result)
	return nil
}

func runCrackTUI(jobCfg crack.Config, autoDecrypt bool) error {
	progress := tui.NewBubbleProgress()
	resultCh := make(chan crack.Result, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	progress.OnCancel(cancel)

	go func() {
		result, err := crack.Orchestrate(ctx, crack.RunConfig{
			Config:        jobCfg,
			FileStore:     ports.NewLocalFileStore(),
			ArtifactStore: ports.NewLocalArtifactStore(),
			TagStore:      ports.NewLocalTagStore(),
			Notifier:      cliNotifier{},
			Progress:      progress,
			AutoDecrypt:   autoDecrypt,
		})
		if err != nil {
			log.WithError(err).Error("crack job failed")
			result = crack.Result{Outcome: crack.OutcomeNotFound}
		}
		resultCh <- result
	}()

	model := tui.NewModel(tui.Config{
		Label:    fmt.Sprintf("Cracking %s", jobCfg.Descriptor.Kind()),
		Progress: progress,
		ResultCh: resultCh,
	})
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("crack: tui: %w", err)
	}
	return nil
}

func printResult(result crack.Result) {
	switch result.Outcome {
	case crack.OutcomeFound:
		fmt.Printf("Password found: %s\n", result.Password)
	case crack.OutcomeCancelled:
		fmt.Println("Cracking cancelled.")
	default:
		fmt.Println("Password not found among the candidates tried.")
	}
}

// cliNotifier routes orchestrator notifications through the shared
// logger instead of an embedder's UI toast system.
type cliNotifier struct{}

func (cliNotifier) Info(title, detail string)  { log.Infof("%s: %s", title, detail) }
func (cliNotifier) Warn(title, detail string)  { log.Warnf("%s: %s", title, detail) }
func (cliNotifier) Error(title, detail string) { log.Errorf("%s: %s", title, detail) }
