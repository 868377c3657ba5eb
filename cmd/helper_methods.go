package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"
	"github.com/PolarWolf314/tc-secrets/internal/secrets"
	"github.com/PolarWolf314/tc-secrets/internal/store"
	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/utils"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// DefaultPassword is used when no password is given in any other way.
const DefaultPassword = "secret"

// EnvPassword holds the password when the --password flag is absent.
const EnvPassword = "TC_SECRETS_PASSWORD"

var (
	password      string
	askPassword   bool
	passwordStdin bool
)

// addPasswordFlags registers the password flags on a command that decrypts
// or encrypts field contents.
func addPasswordFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&password, "password", "p", "", "password used to encrypt and decrypt the secret field (default \"secret\")")
	cmd.Flags().BoolVar(&askPassword, "ask-password", false, "prompt for the password without echoing it")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "ask-password", "password-stdin")
}

func resetPasswordState() {
	password = ""
	askPassword = false
	passwordStdin = false
}

// resolvePassword picks the password from, in order, --password-stdin,
// --ask-password, --password, $TC_SECRETS_PASSWORD and the default.
func resolvePassword() (string, error) {
	switch {
	case passwordStdin:
		Logger.Debugf("Reading password from stdin")
		return utils.ReadPasswordFromStdin()
	case askPassword:
		Logger.Debugf("Prompting for password")
		return utils.PromptPassword("Password: ")
	case password != "":
		Logger.Debugf("Using password from --password")
		return password, nil
	}

	if env := os.Getenv(EnvPassword); env != "" {
		Logger.Debugf("Using password from $%s", EnvPassword)
		return env, nil
	}

	Logger.Debugf("No password given, using the default")
	return DefaultPassword, nil
}

// newCipher builds the field cipher from the resolved password.
func newCipher() (secrets.Cipher, error) {
	pass, err := resolvePassword()
	if err != nil {
		return nil, err
	}
	return secrets.NewPassphraseCipher(pass), nil
}

// newStore builds the secret store described by the user configuration.
// Tests replace it to inject a store.
var newStore = func(cfg *configs.UserConfig) (store.Store, error) {
	return store.New(store.Config{
		Backend: cfg.Store.Backend,
		Dir:     cfg.StoreDir(),
		Profile: cfg.AWS.Profile,
		Region:  cfg.AWS.Region,
	})
}

// loadEnvironment loads the user configuration and the store it selects.
func loadEnvironment() (*configs.UserConfig, store.Store, error) {
	Logger.Debugf("Loading user config from %s", configs.ConfigPath())
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, nil, Logger.ErrorfAndReturn("failed to load user config: %v", err)
	}
	Logger.Debugf("Using store backend %q", cfg.Store.Backend)

	st, err := newStore(cfg)
	if err != nil {
		return nil, nil, Logger.ErrorfAndReturn("failed to create secret store: %v", err)
	}
	return cfg, st, nil
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// reportedError is returned by commands that already printed the failure.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// fail stops the spinner, prints err to stderr in its user-facing form and
// returns it marked as reported so the process exits non-zero.
func fail(s *spinner.Spinner, err error) error {
	Logger.Errorf("%v", err)
	if s != nil {
		s.FinalMSG = ""
		s.Stop()
	}
	fmt.Fprintln(os.Stderr, ui.EnsureNewline(formatError(err)))
	return &reportedError{err: err}
}

// formatError turns an error into a message with a hint for the error kinds
// users can do something about.
func formatError(err error) string {
	var headline, hint string

	switch {
	case errors.Is(err, kerrors.ErrDecryptFailed):
		headline = "Failed to decrypt the remote secret field"
		hint = "Check the password passed with " + ui.Code.Sprint("--password") + " or " + ui.Code.Sprint("$"+EnvPassword)
	case errors.Is(err, kerrors.ErrEncryptFailed):
		headline = "Failed to encrypt the local secrets file"
	case errors.Is(err, kerrors.ErrStoreAuth):
		headline = "Could not authenticate with the secret store"
		hint = "Run " + ui.Code.Sprint("tc-secrets auth") + " to log in"
	case errors.Is(err, kerrors.ErrSecretNotFound):
		headline = "The remote secret does not exist"
		hint = "Check the " + ui.Code.Sprint(secrets.SecretIDHeader) + " header"
	case errors.Is(err, kerrors.ErrStoreOperation):
		headline = "The secret store request failed"
	case errors.Is(err, kerrors.ErrSecretFormat):
		headline = "The remote secret is malformed or lacks the field"
		hint = "Check the " + ui.Code.Sprint(secrets.FieldIDHeader) + " header"
	case errors.Is(err, kerrors.ErrInvalidDocument):
		headline = "The local secrets file is invalid"
		hint = "Run " + ui.Code.Sprint("tc-secrets reset -f FILE --secret ID --field ID") + " to restore it from the store"
	case errors.Is(err, kerrors.ErrFileNotFound):
		headline = "Secrets file not found"
		hint = "Run " + ui.Code.Sprint("tc-secrets sync") + " to download it"
	case errors.Is(err, kerrors.ErrNoFilesFound):
		headline = "No secrets files found"
	case errors.Is(err, kerrors.ErrIO):
		headline = "Failed to read or write the secrets file"
	case errors.Is(err, kerrors.ErrSelectionCancelled):
		headline = "Selection cancelled"
	case errors.Is(err, kerrors.ErrNothingToSelect):
		headline = "Nothing to select"
		hint = "Create a secret in the store first"
	default:
		return ui.Error.Sprint("✗") + " " + err.Error()
	}

	var b strings.Builder
	b.WriteString(ui.Error.Sprint("✗") + " " + headline + "\n")
	b.WriteString(ui.Error.Sprint("Error: ") + err.Error())
	if hint != "" {
		b.WriteString("\n" + ui.Info.Sprint("→") + " " + hint)
	}
	return b.String()
}
