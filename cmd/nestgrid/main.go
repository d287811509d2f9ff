// Package main provides the nestgrid CLI: a terminal editor for nested
// grid sessions and an importer for tabular data.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/nestgrid"
	"github.com/iw2rmb/nestgrid/grammar"
	"github.com/iw2rmb/nestgrid/gridview"
	"github.com/iw2rmb/nestgrid/ingest"
	"github.com/iw2rmb/nestgrid/session"
)

var (
	outputPath string
	sheetName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "nestgrid",
		Short:   "Edit nested grid sessions in the terminal",
		Version: nestgrid.Version(),
	}

	editCmd := &cobra.Command{
		Use:   "edit [session.ise]",
		Short: "Open a session in the grid editor",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEdit,
	}

	importCmd := &cobra.Command{
		Use:   "import input.csv|input.xlsx",
		Short: "Convert tabular data to a session file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	importCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Session file to write (default: input name with .ise)")
	importCmd.Flags().StringVar(&sheetName, "sheet", "", "Workbook sheet to import (default: first sheet)")

	rootCmd.AddCommand(editCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	var (
		doc  *grammar.Model
		path string
	)
	if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// A fresh session saved to the given path on ctrl+s.
		case err != nil:
			return err
		default:
			doc, err = session.Decode(data, grammar.Options{})
			if err != nil {
				return err
			}
		}
	}

	view := gridview.New(gridview.Config{
		Model:      doc,
		Styles:     gridview.DefaultStyles(),
		ShowStatus: true,
		OnSave: func(m *grammar.Model) error {
			if path == "" {
				return fmt.Errorf("no session path; start with: nestgrid edit FILE")
			}
			return saveSession(m, path)
		},
	})

	p := tea.NewProgram(host{view: view}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	var (
		m   *grammar.Model
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".csv":
		m, err = ingest.CSVFile(inputPath)
	case ".xlsx":
		m, err = ingest.XLSX(inputPath, sheetName)
	default:
		return fmt.Errorf("unsupported input type %q (want .csv or .xlsx)", ext)
	}
	if err != nil {
		return err
	}

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".ise"
	}
	if err := saveSession(m, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

func saveSession(m *grammar.Model, path string) error {
	data, err := session.Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// host adapts the gridview component to a full-screen program.
type host struct {
	view gridview.Model
}

func (h host) Init() tea.Cmd { return h.view.Init() }

func (h host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	h.view, cmd = h.view.Update(msg)
	return h, cmd
}

func (h host) View() string { return h.view.View() }
