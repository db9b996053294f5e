package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/storedash/storedash-cli/internal/api"
	"github.com/storedash/storedash-cli/internal/dryrun"
	"github.com/storedash/storedash-cli/internal/iocontext"
	"github.com/storedash/storedash-cli/internal/outfmt"
	"github.com/storedash/storedash-cli/internal/resolve"
	"github.com/storedash/storedash-cli/internal/validation"
)

// printJSON outputs data as JSON with optional query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut).Output(v)
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

func printAction(cmd *cobra.Command, action, resource string, id int, name string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id > 0 {
		message = fmt.Sprintf("%s %d", message, id)
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// printMutation reports a create or update. JSON mode prints the server's
// detail and echoed data; text mode prints a one-line summary plus the
// server's detail message.
func printMutation(cmd *cobra.Command, action, resource string, id int, name string, m *api.Mutation) error {
	if isJSON(cmd) {
		return printJSON(cmd, m)
	}
	printAction(cmd, action, resource, id, name)
	if m != nil && m.Detail.String() != "" && !flags.Quiet {
		_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, m.Detail)
	}
	return nil
}

// checkPayload runs the payload's validate tags so bad input fails before
// a request is built.
func checkPayload(payload any) error {
	if err := validation.Struct(payload); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// maybeDryRun prints a preview of the request and reports true when
// --dry-run is set. Nothing is sent in that case.
func maybeDryRun(cmd *cobra.Command, operation, method, url string, payload any) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	preview, err := dryrun.ForPayload(operation, method, url, payload)
	if err != nil {
		return true, err
	}
	if isJSON(cmd) {
		return true, printJSON(cmd, map[string]any{
			"dry_run":   true,
			"operation": preview.Operation,
			"method":    preview.Method,
			"url":       preview.URL,
			"encoding":  preview.Encoding,
			"fields":    preview.Fields,
			"files":     preview.Files,
			"warnings":  preview.Warnings,
		})
	}
	preview.Write(iocontext.GetIO(cmd.Context()).Out)
	return true, nil
}

// parseIDArg parses a positional record id, accepting a leading '#'.
func parseIDArg(args []string, resource string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s ID is required", resource)
	}
	return validation.ParsePositiveInt(args[0], resource+" ID")
}

// statusFlag parses --status when it was given.
func statusFlag(cmd *cobra.Command, value string) (*int, error) {
	if !flagOrAliasChanged(cmd, "status") {
		return nil, nil
	}
	status, err := api.ParseStatus(value)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func stringIfChanged(cmd *cobra.Command, flag, value string) *string {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

func intIfChanged(cmd *cobra.Command, flag string, value int) *int {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

func floatIfChanged(cmd *cobra.Command, flag string, value float64) *float64 {
	if flagOrAliasChanged(cmd, flag) {
		return &value
	}
	return nil
}

// readUpload loads an upload when path is non-empty.
func readUpload(path string) (*api.Upload, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	return api.ReadUpload(path)
}

// resolveNamed turns a numeric id or a name into an id, with candidate
// lists on ambiguous or unknown names.
func resolveNamed(kind, query string, items []resolve.Named) (int, error) {
	id, err := resolve.ID(query, items)
	if err == nil {
		return id, nil
	}

	var ae *resolve.AmbiguousError
	if errors.As(err, &ae) {
		var options []string
		for _, m := range ae.Matches {
			options = append(options, fmt.Sprintf("  %d: %s", m.ID, m.Name))
		}
		return 0, fmt.Errorf("multiple %s match %q, specify ID:\n%s", kind, query, strings.Join(options, "\n"))
	}

	matches := resolve.Rank(query, items, 5)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no %s found matching %q", kind, query)
	}
	var options []string
	for _, m := range matches {
		options = append(options, fmt.Sprintf("  %d: %s", m.ID, m.Name))
	}
	return 0, fmt.Errorf("no %s found matching %q, best matches:\n%s", kind, query, strings.Join(options, "\n"))
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
// The alias is annotated so flagOrAliasChanged() can detect it.
// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed. This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue extends aliasBridgeValue to also forward the
// pflag.SliceValue interface (Append, Replace, GetSlice) when the
// underlying Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f // shallow copy, shares the Value interface
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// The alias is never independently required; the canonical flag enforces that.
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name {
				if fs.Changed(f.Name) {
					found = true
				}
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			if isJSON(cmd) {
				if structured := api.StructuredErrorFromError(err); structured != nil {
					_ = printJSONErr(cmd, map[string]any{"error": structured})
				}
			} else {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			}
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
