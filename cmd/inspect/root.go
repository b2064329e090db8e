package inspect

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kvbridge/kvbridge/cmd/util"
	"github.com/kvbridge/kvbridge/lib/document"
	"github.com/kvbridge/kvbridge/lib/meta"
	"github.com/kvbridge/kvbridge/lib/stats"
)

var (
	metaService  *meta.Service
	statsService *stats.Service

	// InspectCommands represents the inspect command group
	InspectCommands = &cobra.Command{
		Use:               "inspect",
		Short:             "Run bridge operations against an engine snapshot",
		PersistentPreRunE: setupServices,
	}

	metaCmd = &cobra.Command{
		Use:   "meta <uri>",
		Short: "Print the raw metadata string of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := metaService.GetMetadata(args[0])
			if err != nil {
				return err
			}
			fmt.Println(raw)
			return nil
		},
	}

	appMetaCmd = &cobra.Command{
		Use:   "appmeta <uri>",
		Short: "Print an object's application metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := metaService.GetApplicationMetadata(args[0])
			if err != nil {
				return err
			}
			return printDocument(doc)
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check <uri>",
		Short: "Validate an object's metadata format version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minVersion := viper.GetInt64("min-version")
			maxVersion := viper.GetInt64("max-version")
			if err := metaService.CheckApplicationMetadataFormatVersion(args[0], minVersion, maxVersion); err != nil {
				return err
			}
			fmt.Printf("format version of %s is within [%d, %d]\n", args[0], minVersion, maxVersion)
			return nil
		},
	}

	statCmd = &cobra.Command{
		Use:   "stat <uri> <id>",
		Short: "Print one statistic value by identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid statistic id %q: %w", args[1], err)
			}
			value, err := statsService.StatisticValue(args[0], viper.GetString("stat-config"), int32(id))
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}

	exportCmd = &cobra.Command{
		Use:   "export <uri>",
		Short: "Export a full statistics snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := statsService.ExportSnapshot(args[0], viper.GetString("stat-config"))
			if err != nil {
				return err
			}
			return printDocument(doc)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	InspectCommands.PersistentFlags().String("file", "", util.WrapString("Path of the engine snapshot file to inspect"))
	InspectCommands.PersistentFlags().String("stat-config", "statistics=(fast)", util.WrapString("Engine-level cursor configuration used when opening statistics cursors"))

	checkCmd.Flags().Int64("min-version", 1, util.WrapString("Lowest accepted metadata format version"))
	checkCmd.Flags().Int64("max-version", 1, util.WrapString("Highest accepted metadata format version"))

	// Add subcommands
	InspectCommands.AddCommand(metaCmd)
	InspectCommands.AddCommand(appMetaCmd)
	InspectCommands.AddCommand(checkCmd)
	InspectCommands.AddCommand(statCmd)
	InspectCommands.AddCommand(exportCmd)
	InspectCommands.AddCommand(perfCmd)
}

// setupServices loads the snapshot and wires the bridge services
func setupServices(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	e, err := util.LoadEngine()
	if err != nil {
		return err
	}

	metaService = meta.NewService(e)
	statsService = stats.NewService(e)
	return nil
}

func printDocument(doc *document.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
