package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/billmap/billmap/internal/document"
	"github.com/billmap/billmap/internal/field"
	"github.com/billmap/billmap/internal/session"
	"github.com/billmap/billmap/internal/template"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("billmap")
	var (
		dbPath         = fs.StringLong("db", "billmap.db", "Template database file path")
		storeType      = fs.StringLong("store", "bolt", "Template store backend: 'bolt' or 'sqlite'")
		docType        = fs.StringLong("type", "electric", fmt.Sprintf("Document type: %s", strings.Join(field.DocumentTypes(), ", ")))
		docPath        = fs.StringLong("doc", "", "Bill document to extract (PDF or image)")
		showTemplate   = fs.BoolLong("show-template", "Print the saved template for the document type")
		deleteTemplate = fs.BoolLong("delete-template", "Delete the saved template for the document type")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILLMAP"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	store, err := openStore(*storeType, *dbPath)
	if err != nil {
		slog.Error("Failed to open template store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *deleteTemplate:
		if err := store.Delete(*docType); err != nil {
			slog.Error("Failed to delete template", "doc_type", *docType, "error", err)
			os.Exit(1)
		}
		slog.Info("Template deleted", "doc_type", *docType)

	case *showTemplate:
		mapping, err := store.Load(*docType)
		if err != nil {
			slog.Error("Failed to load template", "doc_type", *docType, "error", err)
			os.Exit(1)
		}
		if mapping == nil {
			slog.Info("No template saved", "doc_type", *docType)
			return
		}
		out, err := json.MarshalIndent(mapping, "", "  ")
		if err != nil {
			slog.Error("Failed to encode template", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))

	case *docPath != "":
		if err := extract(store, *docPath, *docType); err != nil {
			slog.Error("Extraction failed", "doc", *docPath, "error", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --doc, --show-template, or --delete-template is required")
		os.Exit(1)
	}
}

func openStore(kind, path string) (template.Store, error) {
	switch kind {
	case "bolt":
		return template.NewBoltStore(path)
	case "sqlite":
		return template.NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("invalid store type %q, valid: bolt or sqlite", kind)
	}
}

func extract(store template.Store, path, docType string) error {
	svc := session.NewService(document.NewFitzLoader(), store)
	sess, err := svc.Open(path, docType)
	if err != nil {
		return err
	}
	if warning := sess.Warning(); warning != "" {
		slog.Warn("Degraded document load", "warning", warning)
	}

	if sess.State() != session.StateExtracted {
		slog.Info("No template saved for this document type; map fields interactively and save a template first", "doc_type", docType)
		return nil
	}

	values := sess.Values()
	for _, def := range sess.FieldDefinitions() {
		value, ok := values[def.Name]
		if !ok {
			value = "(not extracted)"
		}
		fmt.Printf("%-20s %s\n", def.Label+":", value)
	}

	ok, issues := sess.Validate(values)
	for _, issue := range issues {
		fmt.Printf("  ! %s\n", issue)
	}
	if !ok {
		return fmt.Errorf("extraction has validation errors")
	}
	return nil
}
