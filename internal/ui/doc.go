// Package ui provides semantic text formatting, diff rendering and
// interactive selection for CLI output.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("tc-secrets sync -f .env") // Commands and code
//	ui.Path.Sprint(".env")                    // File paths
//	ui.Success.Sprint("✓")                    // Success indicators
//	ui.Error.Sprint("✗")                      // Error indicators
//	ui.Warning.Sprint("[dry-run]")            // Warnings
//	ui.Info.Sprint("→")                       // Informational hints
//	ui.Highlight.Sprint("team/backend")       // Secret references
//	ui.Version.Sprint(3)                      // Document versions
//
// # Color Behavior
//
// Colors are disabled when NO_COLOR is set or the terminal doesn't support
// them. Formatters then apply text decorations instead:
//   - Code: `backticks`
//   - Highlight: 'single quotes'
//   - Version: v-prefix
//
// # Diffs
//
// RenderDiff produces a unified diff, colorized line by line.
//
// # Selection
//
// PromptSelector asks the user to pick one item from a list.
package ui
