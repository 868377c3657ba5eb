package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/PolarWolf314/tc-secrets/internal/configs"
	"github.com/PolarWolf314/tc-secrets/internal/store"
	"github.com/PolarWolf314/tc-secrets/internal/ui"
	"github.com/PolarWolf314/tc-secrets/internal/workflows"

	"github.com/spf13/cobra"
	"github.com/synfinatic/aws-sso-cli/sso"
)

var (
	authSSO         bool
	authSSOStartURL string
	authSSORegion   string
	authSkipLogin   bool
)

func init() {
	authCmd.Flags().BoolVar(&authSSO, "sso", false, "log in through AWS SSO instead of access keys (the profile must be an SSO profile)")
	authCmd.Flags().StringVar(&authSSOStartURL, "sso-start-url", "", "AWS SSO start URL (defaults to the configured one)")
	authCmd.Flags().StringVar(&authSSORegion, "sso-region", "", "AWS SSO region (defaults to the configured one)")
	authCmd.Flags().BoolVar(&authSkipLogin, "skip-login", false, "only check the current credentials")
}

func resetAuthCommandState() {
	authSSO = false
	authSSOStartURL = ""
	authSSORegion = ""
	authSkipLogin = false
}

// runAWSConfigure runs the interactive `aws configure` for profile.
// Tests replace it.
var runAWSConfigure = func(profile string) error {
	c := exec.Command("aws", "configure", "--profile", profile)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// runSSOLogin performs the browser based AWS SSO login. Tests replace it.
var runSSOLogin = func(cfg *AWSSSOConfig) error {
	awsSSO := sso.NewAWSSSO(&sso.SSOConfig{
		SSORegion:     cfg.SSORegion,
		StartUrl:      cfg.SSOStartURL,
		DefaultRegion: cfg.Region,
		MaxBackoff:    30,
		MaxRetry:      3,
	}, nil)

	// The empty strings select the default browser.
	return awsSSO.Authenticate("", "")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in to the secret store",
	Long: `Sets up credentials for the secret store and checks that they work.

For the AWS backend this runs 'aws configure' for the tc-secrets profile,
or logs in through AWS SSO when --sso is given. The dir backend needs no
login; its directory is only checked.

The SSO login caches its token in aws-sso-cli's store. The secret store
reads credentials from the shared config profile, so --sso only helps when
that profile is itself an SSO profile, with sso_start_url, sso_region,
sso_account_id and sso_role_name set in ~/.aws/config.

Examples:
  tc-secrets auth
  tc-secrets auth --sso --sso-start-url https://example.awsapps.com/start --sso-region eu-west-1
  tc-secrets auth --skip-login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting auth command")
		spinner, cleanup := startSpinner("Authenticating...", verbose)
		defer cleanup()

		cfg, err := configs.LoadUserConfig()
		if err != nil {
			return fail(spinner, Logger.ErrorfAndReturn("failed to load user config: %v", err))
		}

		if strings.EqualFold(cfg.Store.Backend, store.BackendAWS) && !authSkipLogin {
			spinner.Stop()
			if err := login(cfg); err != nil {
				spinner.FinalMSG = formatAuthenticationError(err)
				return &reportedError{err: err}
			}
			if !verbose && !debug {
				spinner.Restart()
			}
		}

		st, err := newStore(cfg)
		if err != nil {
			return fail(spinner, Logger.ErrorfAndReturn("failed to create secret store: %v", err))
		}

		result, err := workflows.Auth(context.Background(), workflows.AuthOptions{Store: st})
		if err != nil {
			return fail(spinner, err)
		}
		Logger.Debugf("Authenticated as %+v", result.Identity)

		msg := ui.Success.Sprint("✓") + " Authenticated with the " + ui.Highlight.Sprint(cfg.Store.Backend) + " secret store"
		if result.Identity.ARN != "" {
			msg += "\n" + ui.Info.Sprint("→") + " Identity: " + ui.Highlight.Sprint(result.Identity.ARN)
		}
		if result.Identity.Account != "" {
			msg += "\n" + ui.Info.Sprint("→") + " Account:  " + result.Identity.Account
		}
		spinner.FinalMSG = msg
		return nil
	},
}

// login runs the interactive credential setup for the AWS backend.
func login(cfg *configs.UserConfig) error {
	if !authSSO {
		Logger.Infof("Running aws configure for profile %s", cfg.AWS.Profile)
		if err := runAWSConfigure(cfg.AWS.Profile); err != nil {
			return &AuthenticationError{
				Type:       "configure_failed",
				Message:    "Failed to configure AWS profile",
				Details:    err.Error(),
				Suggestion: "Install the AWS CLI or use --sso",
			}
		}
		return nil
	}

	ssoConfig := &AWSSSOConfig{
		ProfileName: cfg.AWS.Profile,
		SSOStartURL: firstNonEmpty(authSSOStartURL, cfg.AWS.SSOStartURL),
		SSORegion:   firstNonEmpty(authSSORegion, cfg.AWS.SSORegion, cfg.AWS.Region),
		Region:      cfg.AWS.Region,
	}
	if ssoConfig.SSOStartURL == "" {
		return &AuthenticationError{
			Type:       "sso_config_missing",
			Message:    "AWS SSO start URL not configured",
			Suggestion: "Pass --sso-start-url or set sso_start_url in " + configs.ConfigPath(),
		}
	}

	Logger.Infof("Starting AWS SSO login at %s", ssoConfig.SSOStartURL)
	if err := runSSOLogin(ssoConfig); err != nil {
		return &AuthenticationError{
			Type:       "sso_login_failed",
			Message:    "AWS SSO login failed",
			Details:    err.Error(),
			Suggestion: "Check your AWS SSO configuration and try again",
		}
	}

	if err := setAWSEnvironmentVariables(ssoConfig); err != nil {
		return &AuthenticationError{
			Type:    "env_setup_failed",
			Message: "Failed to set AWS environment variables",
			Details: err.Error(),
		}
	}
	return nil
}

// AWSSSOConfig holds AWS SSO configuration details.
type AWSSSOConfig struct {
	ProfileName string
	SSOStartURL string
	SSORegion   string
	Region      string
}

// setAWSEnvironmentVariables points the AWS SDK at the SSO profile for the
// rest of this process.
func setAWSEnvironmentVariables(config *AWSSSOConfig) error {
	if err := os.Setenv("AWS_PROFILE", config.ProfileName); err != nil {
		return fmt.Errorf("failed to set AWS_PROFILE: %w", err)
	}
	if config.Region != "" {
		if err := os.Setenv("AWS_REGION", config.Region); err != nil {
			return fmt.Errorf("failed to set AWS_REGION: %w", err)
		}
	}
	Logger.Infof("Set AWS_PROFILE=%s, AWS_REGION=%s", config.ProfileName, config.Region)
	return nil
}

// AuthenticationError represents a structured authentication error.
type AuthenticationError struct {
	Type       string
	Message    string
	Details    string
	Suggestion string
}

func (e *AuthenticationError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// formatAuthenticationError creates a user-friendly error message for authentication failures.
func formatAuthenticationError(err error) string {
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		return ui.Error.Sprint("✗") + " Authentication failed: " + err.Error()
	}

	var message strings.Builder
	message.WriteString(ui.Error.Sprint("✗") + " " + authErr.Message + "\n")
	if authErr.Details != "" {
		message.WriteString(ui.Info.Sprint("→") + " " + authErr.Details + "\n")
	}
	if authErr.Suggestion != "" {
		message.WriteString(ui.Info.Sprint("→") + " " + ui.Warning.Sprint(authErr.Suggestion) + "\n")
	}

	switch authErr.Type {
	case "sso_config_missing", "sso_login_failed":
		message.WriteString(ui.Info.Sprint("→") + " Then run: " + ui.Code.Sprint("tc-secrets auth --sso"))
	default:
		message.WriteString(ui.Info.Sprint("→") + " Try running: " + ui.Code.Sprint("tc-secrets auth") + " again")
	}

	return message.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
