package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/greenmeds/pkg/api"
	"github.com/hazyhaar/greenmeds/pkg/config"
	"github.com/hazyhaar/greenmeds/pkg/ocr"
)

const testCatalog = `medicine,toxicity_level,disposal,compost_safe,warnings
Paracetamol,Low,Take-back program,Yes,
Ibuprofen,Medium,Pharmacy return,No,Toxic to aquatic life
Diclofenac,High,Hazardous waste,No,Harms vultures
Omeprazole,Low,Pharmacy return,No,
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meds_info.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	return path
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	lookupOpts = lookupFlags{}
	scanOpts = lookupFlags{}
	batchJSON, listJSON, listToxicity = false, false, ""
	importSource, importOutputDir = "", "catalog"
	configPath, catalogPath = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"lookup", "scan", "batch", "list", "import", "mcp"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "greenmeds", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("catalog"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, lookupCmd.Flags().Lookup("pick"))
	assert.NotNil(t, scanCmd.Flags().Lookup("out"))
}

func TestLookup_Exact(t *testing.T) {
	out, err := execute(t, "lookup", "--catalog", writeCatalog(t), "Diclofenac", "50mg", "Tablet")
	require.NoError(t, err)
	assert.Contains(t, out, "GreenMeds - Eco Report")
	assert.Contains(t, out, "Medicine: Diclofenac")
	assert.Contains(t, out, "Eco Toxicity Score: 35/100")
	assert.Contains(t, out, "Verdict: high-toxicity")
}

func TestLookup_Suggestions(t *testing.T) {
	cat := writeCatalog(t)

	out, err := execute(t, "lookup", "--catalog", cat, "paracetmol")
	require.NoError(t, err)
	assert.Contains(t, out, "close suggestions")
	assert.Contains(t, out, "1. Paracetamol (95% similar)")
	assert.Contains(t, out, "2. Omeprazole (50% similar)")

	out, err = execute(t, "lookup", "--catalog", cat, "--pick", "2", "paracetmol")
	require.NoError(t, err)
	assert.Contains(t, out, "Medicine: Omeprazole")

	_, err = execute(t, "lookup", "--catalog", cat, "--pick", "5", "paracetmol")
	assert.ErrorContains(t, err, "pick out of range")
}

func TestLookup_NotFound(t *testing.T) {
	out, err := execute(t, "lookup", "--catalog", writeCatalog(t), "aspirin")
	require.NoError(t, err)
	assert.Contains(t, out, "No medicine match found")
}

func TestLookup_JSONAndOut(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "lookup", "--catalog", writeCatalog(t), "--json", "--out", dir, "ibuprofn")
	require.NoError(t, err)

	var resp api.LookupResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"Ibuprofen"}, resp.Resolution.CandidateNames())
	assert.Nil(t, resp.Report)

	// Nothing saved without a settled record.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = execute(t, "lookup", "--catalog", writeCatalog(t), "--out", dir, "ibuprofen")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "Ibuprofen_eco_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Eco Toxicity Score: 60/100")
}

func TestLookup_MissingCatalog(t *testing.T) {
	_, err := execute(t, "lookup", "--catalog", filepath.Join(t.TempDir(), "none.csv"), "ibuprofen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none.csv")
}

func stubEngine(t *testing.T, text string, err error) {
	t.Helper()
	prev := newEngine
	newEngine = func(config.OCRConfig) ocr.Engine {
		return ocr.EngineFunc(func(context.Context, []byte) (string, error) { return text, err })
	}
	t.Cleanup(func() { newEngine = prev })
}

func TestScan(t *testing.T) {
	img := filepath.Join(t.TempDir(), "box.png")
	require.NoError(t, os.WriteFile(img, []byte("not decoded by the stub"), 0o644))

	stubEngine(t, "Lot 42\nIbuprofen 200mg Tablet\nx", nil)
	out, err := execute(t, "scan", "--catalog", writeCatalog(t), img)
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted text: Ibuprofen 200mg Tablet")
	assert.Contains(t, out, "Medicine: Ibuprofen")

	stubEngine(t, "", errors.New("tesseract missing"))
	out, err = execute(t, "scan", "--catalog", writeCatalog(t), img)
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted text: OCR Error: tesseract missing")
	assert.Contains(t, out, "No medicine match found")

	_, err = execute(t, "scan", "--catalog", writeCatalog(t), filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	in := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(in, []byte("Paracetamol 500mg\n\nibuprofn\naspirin\n"), 0o644))

	out, err := execute(t, "batch", "--catalog", writeCatalog(t), in)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[2], "exact")
	assert.Contains(t, lines[2], "100/100")
	assert.Contains(t, lines[3], "ambiguous")
	assert.Contains(t, lines[3], "Ibuprofen")
	assert.Contains(t, lines[4], "not_found")

	out, err = execute(t, "batch", "--catalog", writeCatalog(t), "--json", in)
	require.NoError(t, err)
	var resp api.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Results, 3)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n  \n"), 0o644))
	_, err = execute(t, "batch", "--catalog", writeCatalog(t), empty)
	assert.ErrorContains(t, err, "no names")
}

func TestReadInputs_Large(t *testing.T) {
	var b strings.Builder
	for range 250 {
		b.WriteString("ibuprofen\n")
	}
	inputs, err := readInputs(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Len(t, inputs, 250)
}

func TestList(t *testing.T) {
	cat := writeCatalog(t)

	out, err := execute(t, "list", "--catalog", cat)
	require.NoError(t, err)
	assert.Contains(t, out, "4 medicines")

	out, err = execute(t, "list", "--catalog", cat, "--toxicity", "low")
	require.NoError(t, err)
	assert.Contains(t, out, "Paracetamol")
	assert.Contains(t, out, "Omeprazole")
	assert.NotContains(t, out, "Diclofenac")
	assert.Contains(t, out, "2 medicines")

	_, err = execute(t, "list", "--catalog", cat, "--toxicity", "lethal")
	assert.ErrorContains(t, err, "unknown toxicity level")
}

func TestImport(t *testing.T) {
	out, err := execute(t, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "csv-gob")
	assert.Contains(t, out, "csv-sqlite")

	dest := filepath.Join(t.TempDir(), "snap")
	out, err = execute(t, "import", "--source", "csv-sqlite", "--output-dir", dest, writeCatalog(t))
	require.NoError(t, err)
	assert.Contains(t, out, "[csv-sqlite] 4 records")

	// The snapshot directory is itself a catalog.
	out, err = execute(t, "lookup", "--catalog", dest, "omeprazole")
	require.NoError(t, err)
	assert.Contains(t, out, "Eco Toxicity Score: 85/100")

	_, err = execute(t, "import", "--source", "csv-xml", writeCatalog(t))
	assert.ErrorContains(t, err, "unknown import source")
}

func TestNewMCPServer(t *testing.T) {
	cfg = &config.Config{
		Catalog:  config.CatalogConfig{Path: writeCatalog(t)},
		Resolver: config.ResolverConfig{Cutoff: 0.5, MaxCandidates: 5},
		Batch:    config.BatchConfig{Concurrency: 2},
	}
	svc, err := newService()
	require.NoError(t, err)
	srv := newMCPServer(svc)

	msg := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"score_medicine","arguments":{"name":"paracetamol"}}}`)
	resp := srv.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\"score\":100`)
}

func TestWatchReload(t *testing.T) {
	path := writeCatalog(t)
	cfg = &config.Config{
		Catalog:  config.CatalogConfig{Path: path},
		Resolver: config.ResolverConfig{Cutoff: 0.5, MaxCandidates: 5},
		Batch:    config.BatchConfig{Concurrency: 2},
	}
	svc, err := newService()
	require.NoError(t, err)
	require.Equal(t, 4, svc.Store().Len())

	stop := watchReload(svc)
	require.NoError(t, os.WriteFile(path, []byte(testCatalog+"Aspirin,Low,Bin,Yes,\n"), 0o644))
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))

	assert.Eventually(t, func() bool { return svc.Store().Len() == 5 }, 2*time.Second, 10*time.Millisecond)
	stop()
}
