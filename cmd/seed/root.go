package seed

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvbridge/kvbridge/cmd/util"
	"github.com/kvbridge/kvbridge/lib/engine"
	"github.com/kvbridge/kvbridge/lib/engine/memwt"
)

// demo objects written by the seed command
var demoTables = []struct {
	uri    string
	config string
	stats  []engine.StatisticsRow
}{
	{
		uri:    "table:users",
		config: `key_format=q,value_format=u,app_metadata=(formatVersion=1,indexed=true,ns="demo.users")`,
		stats: []engine.StatisticsRow{
			{Description: "block-manager: file size in bytes", ID: engine.StatBlockSize, Value: 40960},
			{Description: "block-manager: blocks allocated", ID: engine.StatBlockAlloc, Value: 12},
			{Description: "btree: number of entries", ID: engine.StatEntryCount, Value: 250},
		},
	},
	{
		uri:    "table:orders",
		config: `key_format=q,value_format=u,app_metadata=(formatVersion=1,ns="demo.orders")`,
		stats: []engine.StatisticsRow{
			{Description: "block-manager: file size in bytes", ID: engine.StatBlockSize, Value: 8192},
			{Description: "btree: number of entries", ID: engine.StatEntryCount, Value: 3},
		},
	},
	{
		uri:    "index:users:byName",
		config: `key_format=u,app_metadata=(formatVersion=2)`,
		stats: []engine.StatisticsRow{
			{Description: "block-manager: file size in bytes", ID: engine.StatBlockSize, Value: 4096},
		},
	},
}

// SeedCommand writes a demo engine snapshot for the inspect commands
var SeedCommand = &cobra.Command{
	Use:   "seed",
	Short: "Write a demo engine snapshot file",
	Long: util.WrapString(`Creates a few demo objects with application metadata
and statistics, then saves them as an engine snapshot that the inspect
commands can load.`),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := util.BindCommandFlags(cmd); err != nil {
			return err
		}

		path := util.SnapshotPath()
		if path == "" {
			return fmt.Errorf("no snapshot file given (use --file or KVB_FILE)")
		}

		e := memwt.NewEngine()
		for _, tbl := range demoTables {
			if code := e.Create(tbl.uri, tbl.config); code != engine.CodeOK {
				return fmt.Errorf("creating %s: %s", tbl.uri, engine.Strerror(code))
			}
			if code := e.SetStatistics(tbl.uri, tbl.stats); code != engine.CodeOK {
				return fmt.Errorf("seeding statistics for %s: %s", tbl.uri, engine.Strerror(code))
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := e.Save(f); err != nil {
			return fmt.Errorf("saving snapshot %s: %w", path, err)
		}

		fmt.Printf("wrote %d objects to %s\n", len(demoTables), path)
		return nil
	},
}

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	SeedCommand.Flags().String("file", "", util.WrapString("Path of the snapshot file to write"))
}
