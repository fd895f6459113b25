package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autopeer-io/vocbridge/cmd/cpeer-voc-bridge/app/options"
	"github.com/autopeer-io/vocbridge/internal/bridge/core"
	"github.com/autopeer-io/vocbridge/internal/vehicle"
)

const statusTimeout = 2 * time.Minute

// SensorRow is one line of the status output.
type SensorRow struct {
	Capability string           `json:"capability" yaml:"capability"`
	Kind       vehicle.Kind     `json:"kind" yaml:"kind"`
	Sensor     vehicle.SensorID `json:"sensor" yaml:"sensor"`
	Value      any              `json:"value" yaml:"value"`
}

func newStatusCommand(opts *options.BridgeOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print every sensor of the vehicle once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
			defer cancel()

			session, _ := cfg.OpenSession(ctx)
			if !core.Available(session) {
				_, err := session.ReadSensor(vehicle.SensorLock)
				return err
			}
			return printStatus(cmd.OutOrStdout(), output, statusRows(session))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml.")
	return cmd
}

func statusRows(s core.Session) []SensorRow {
	var rows []SensorRow
	for _, c := range s.Capabilities() {
		for _, id := range c.Sensors {
			row := SensorRow{Capability: c.Name, Kind: c.Kind, Sensor: id}
			if v, err := s.ReadSensor(id); err == nil {
				row.Value = v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func printStatus(w io.Writer, output string, rows []SensorRow) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case "table", "":
		table := uitable.New()
		table.MaxColWidth = 40
		table.AddRow("CAPABILITY", "KIND", "SENSOR", "VALUE")
		for _, r := range rows {
			table.AddRow(r.Capability, r.Kind, r.Sensor, r.Value)
		}
		_, err := fmt.Fprintln(w, table)
		return err
	}
	return fmt.Errorf("unknown output format %q", output)
}
