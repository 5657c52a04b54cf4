package main

import (
	"github.com/siherrmann/depmatch"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
	"github.com/spf13/cobra"
)

var (
	rootConfigPath    string
	rootSignatureMode string
	rootDedupMode     string
	rootCoreNLPURL    string
	rootLogLevel      string
	rootNoMemoryCache bool
)

var rootCmd = &cobra.Command{
	Use:   "depmatch",
	Short: "Match cloze placeholders to passage entities by dependency edges",
	Long: `depmatch reads cloze-style question records, parses passage and question
with a CoreNLP server and reports the entity markers of the passage whose
dependency edges equal the edges of the @placeholder in the question.

Annotations are cached next to each record (<file>.passage.ann and
<file>.question.ann) or in PostgreSQL with DEPMATCH_CACHE=postgres.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootConfigPath, "config", "c", "", "YAML file with the match configuration")
	flags.StringVar(&rootSignatureMode, "signature", "", "Signature mode (multi, collapsed)")
	flags.StringVar(&rootDedupMode, "dedup", "", "Dedup mode (per-marker, per-edge)")
	flags.StringVar(&rootCoreNLPURL, "corenlp", "", "CoreNLP server URL (overrides DEPMATCH_CORENLP_URL)")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&rootNoMemoryCache, "no-memory-cache", false, "Disable the in-memory annotation cache")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// matchConfig builds the match configuration from the config file and the
// mode flags. Flags win over the file.
func matchConfig() (model.MatchConfig, error) {
	config := model.DefaultMatchConfig()
	if rootConfigPath != "" {
		var err error
		config, err = model.LoadMatchConfig(rootConfigPath)
		if err != nil {
			return config, err
		}
	}
	if rootSignatureMode != "" {
		config.SignatureMode = model.SignatureMode(rootSignatureMode)
	}
	if rootDedupMode != "" {
		config.DedupMode = model.DedupMode(rootDedupMode)
	}
	return config, config.Validate()
}

// configuration reads the environment and applies the flag overrides.
func configuration() (*helper.Configuration, error) {
	config, err := helper.NewConfiguration()
	if err != nil {
		return nil, err
	}
	if rootCoreNLPURL != "" {
		config.CoreNLPURL = rootCoreNLPURL
	}
	if rootLogLevel != "" {
		config.LogLevel, err = helper.ParseLogLevel(rootLogLevel)
		if err != nil {
			return nil, err
		}
	}
	if rootNoMemoryCache {
		config.MemoryCacheSize = 0
	}
	return config, nil
}

func newDepMatch() (*depmatch.DepMatch, error) {
	config, err := configuration()
	if err != nil {
		return nil, err
	}
	mc, err := matchConfig()
	if err != nil {
		return nil, helper.NewError("match configuration", err)
	}
	return depmatch.New(config, mc)
}
