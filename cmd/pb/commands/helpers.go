package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fivetwenty-io/pocketbase-client/internal/constants"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pbclient"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Fixed columns shown first in record tables.
var leadingColumns = []string{"id", "created", "updated"}

// effectiveURL resolves the server URL from flags, environment, then config file.
func effectiveURL() string {
	if url := viper.GetString("url"); url != "" {
		return url
	}

	return loadConfig().URL
}

// effectiveToken resolves the auth token from flags, environment, then config file.
func effectiveToken() string {
	if token := viper.GetString("token"); token != "" {
		return token
	}

	return loadConfig().Token
}

// effectiveAuthCollection resolves the auth collection name.
func effectiveAuthCollection() string {
	if collection := viper.GetString("auth_collection"); collection != "" {
		return collection
	}

	return loadConfig().AuthCollection
}

// createClient builds a client from the resolved CLI configuration.
func createClient() (pocketbase.Client, error) {
	url := effectiveURL()
	if url == "" {
		return nil, constants.ErrNoServerConfigured
	}

	config := &pocketbase.Config{
		BaseURL:        url,
		AuthToken:      effectiveToken(),
		AuthCollection: effectiveAuthCollection(),
	}

	client, err := pbclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// parseRecordData builds a record from --data flag values. Each value is
// either a JSON object or a key=value pair; later values win.
func parseRecordData(values []string) (pocketbase.Record, error) {
	record := pocketbase.Record{}

	for _, value := range values {
		trimmed := strings.TrimSpace(value)

		if strings.HasPrefix(trimmed, "{") {
			var fields map[string]interface{}
			if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
				return nil, fmt.Errorf("%w: %s", constants.ErrInvalidDataFlag, value)
			}

			for key, fieldValue := range fields {
				record[key] = fieldValue
			}

			continue
		}

		key, fieldValue, ok := strings.Cut(trimmed, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %s", constants.ErrInvalidDataFlag, value)
		}

		record[key] = fieldValue
	}

	return record, nil
}

// formatValue renders a record field for table output.
func formatValue(value interface{}) string {
	if value == nil {
		return constants.NotAvailable
	}

	var text string

	switch typed := value.(type) {
	case string:
		text = typed
	case float64, bool, int:
		text = fmt.Sprintf("%v", typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			text = fmt.Sprintf("%v", typed)
		} else {
			text = string(encoded)
		}
	}

	if len(text) > constants.ValueDisplayLength {
		text = text[:constants.ValueDisplayLength] + "..."
	}

	return text
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// recordColumns returns the table columns for a set of records: the fixed
// leading columns followed by the remaining field names sorted.
func recordColumns(records []pocketbase.Record) []string {
	seen := make(map[string]bool)
	for _, column := range leadingColumns {
		seen[column] = true
	}

	var extra []string

	for _, record := range records {
		for key := range record {
			if !seen[key] {
				seen[key] = true

				extra = append(extra, key)
			}
		}
	}

	sort.Strings(extra)

	return append(append([]string{}, leadingColumns...), extra...)
}

// renderRecord outputs a single record in the configured format.
func renderRecord(record pocketbase.Record) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(record)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(record)
	default:
		keys := make([]string, 0, len(record))
		for key := range record {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")

		for _, key := range keys {
			_ = table.Append(key, formatValue(record[key]))
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}

// renderRecords outputs a list of records in the configured format.
func renderRecords(records []pocketbase.Record) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(records)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(records)
	default:
		if len(records) == 0 {
			_, _ = os.Stdout.WriteString("No records found\n")

			return nil
		}

		columns := recordColumns(records)

		header := make([]interface{}, 0, len(columns))
		for _, column := range columns {
			header = append(header, column)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header(header...)

		for _, record := range records {
			row := make([]interface{}, 0, len(columns))
			for _, column := range columns {
				row = append(row, formatValue(record[column]))
			}

			_ = table.Append(row...)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}
