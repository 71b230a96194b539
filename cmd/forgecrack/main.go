// Command forgecrack detects and attempts to recover the password of
// encrypted ZIP, PDF, Office, BitLocker, and LUKS containers. All flag
// parsing, sub-command dispatch, config-file loading, and environment
// overrides live in internal/cli via cobra and viper; main only delegates.
package main

import "forgecrack/internal/cli"

func main() { cli.Execute() }
