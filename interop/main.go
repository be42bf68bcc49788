package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	groups "github.com/suhasHere/mls-groups"
	"github.com/suhasHere/mls-groups/phrases"
	vectors "github.com/suhasHere/mls-groups/test-vectors"
)

const (
	vectorProfileKeys  = "profile-keys"
	vectorDescriptions = "descriptions"
)

var (
	vectorType string
	nMembers   uint32
	locale     string
	selfID     string
	names      []string
	logLevel   string
)

///
/// Test vectors
///

func generateVector() (interface{}, error) {
	switch vectorType {
	case vectorProfileKeys:
		return vectors.NewProfileKeys(nMembers)
	case vectorDescriptions:
		return vectors.NewDescriptions(locale)
	default:
		return nil, fmt.Errorf("invalid test vector type %q", vectorType)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	vec, err := generateVector()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(vec)
}

func runVerify(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	switch vectorType {
	case vectorProfileKeys:
		var vec vectors.ProfileKeys
		if err := json.Unmarshal(data, &vec); err != nil {
			return err
		}
		err = vec.Verify()

	case vectorDescriptions:
		var vec vectors.Descriptions
		if err := json.Unmarshal(data, &vec); err != nil {
			return err
		}
		err = vec.Verify()

	default:
		return fmt.Errorf("invalid test vector type %q", vectorType)
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

///
/// Describe
///

// parseNames reads uuid=name pairs.
func parseNames(pairs []string) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	for _, pair := range pairs {
		id, name, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed name %q, expected uuid=name", pair)
		}

		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("malformed name %q: %w", pair, err)
		}
		out[parsed] = name
	}
	return out, nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	data, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("change is not hex: %w", err)
	}

	change, err := groups.UnmarshalGroupChange(data)
	if err != nil {
		return err
	}

	self := groups.UnknownIdentity
	if selfID != "" {
		if self, err = uuid.Parse(selfID); err != nil {
			return err
		}
	}

	known, err := parseNames(names)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	describer, err := groups.NewCachingDescriber(groups.MemberDescriberFunc(func(id uuid.UUID) string {
		if name, ok := known[id]; ok {
			return name
		}
		return id.String()[:8]
	}), 64, groups.WithLogger(logger))
	if err != nil {
		return err
	}

	producer := groups.NewChangeDescriptionProducer(phrases.Printer(locale), describer, self, groups.WithLogger(logger))
	for _, d := range producer.DescribeChanges(change) {
		fmt.Fprintln(cmd.OutOrStdout(), d.Resolve())
	}
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

///
/// Commands
///

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "interop",
		Short:         "Generate and check group update test vectors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&locale, "locale", phrases.BaseLocale, "locale used for descriptions")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	vectorsCmd := &cobra.Command{
		Use:   "vectors",
		Short: "Test vector generation and verification",
	}
	vectorsCmd.PersistentFlags().StringVar(&vectorType, "type", vectorProfileKeys, "profile-keys or descriptions")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a test vector as JSON",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().Uint32Var(&nMembers, "members", 8, "number of members in profile key vectors")

	verifyCmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Verify a JSON test vector from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVerify,
	}

	vectorsCmd.AddCommand(generateCmd, verifyCmd)

	describeCmd := &cobra.Command{
		Use:   "describe <hex>",
		Short: "Describe a TLS-encoded group change",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}
	describeCmd.Flags().StringVar(&selfID, "self", "", "uuid of the member reading the change")
	describeCmd.Flags().StringArrayVar(&names, "name", nil, "display name as uuid=name, repeatable")

	root.AddCommand(vectorsCmd, describeCmd)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
