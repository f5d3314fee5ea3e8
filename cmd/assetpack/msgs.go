package assetpack

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Compile web assets into fingerprinted bundles"
	MsgBuildShort      = "Compile every fileset for an environment"
	MsgAssetsShort     = "List filesets, or the members of one fileset"
	MsgPatternsShort   = "List the route patterns covering fileset members"
	MsgCompileShort    = "Compile one asset through the dev pipeline"
	MsgPipelineShort   = "Show the processors of each environment"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."

	// Result titles
	MsgFilesetsTitle    = "Filesets"
	MsgMembersTitle     = "Fileset %s"
	MsgPatternsTitle    = "Patterns"
	MsgPipelineTitle    = "Pipeline %s"
	MsgAggregatorsTitle = "Aggregators"
	MsgManifestWritten  = "Manifest written to %s"
	MsgWatching         = "Watching %s for changes (Ctrl-C to stop)"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Configuration file (default: assets.toml, .yaml, .yml, .json or .jsonc in the working directory)"
	MsgFlagSet      = "Override a setting, key=value (repeatable)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagOut      = "Output directory"
	MsgFlagManifest = "Write a manifest of the outputs (yaml, or json by extension)"
	MsgFlagWatch    = "Rebuild when sources or configuration change"
	MsgFlagMedia    = "Only list members of this media type: script or style"
	MsgFlagSyntax   = "Configuration syntax: toml, yaml or json"

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrUnknownFileset = "unknown fileset %q"
	MsgErrUnknownMedia   = "unknown media type %q"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimRight(msgBuildExampleRaw, "\n")

	//go:embed msgs/compile-long.txt
	msgCompileLongRaw string
	MsgCompileLong    = strings.TrimSpace(msgCompileLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
