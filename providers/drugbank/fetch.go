package drugbank

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"drug-graph/config"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Minute}

// Fetcher ist eine Struktur, die die Beschaffung der DrugBank-Exportdatei kapselt.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des DrugBank-Fetchers.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "drugbank"
}

// EnsureLocalCopy stellt sicher, dass die Exportdatei lokal vorliegt. Existiert
// sie nicht und sind DrugBank-Zugangsdaten konfiguriert, wird sie
// heruntergeladen. Ohne Datei und ohne Zugangsdaten ist der Fehler eine
// Handlungsanweisung für den Betreiber, kein Stacktrace-Fall.
func (f *Fetcher) EnsureLocalCopy(ctx context.Context) (string, error) {
	path := f.Config.DrugbankXMLPath()

	if _, err := os.Stat(path); err == nil {
		f.Logger.Debug("Lokale DrugBank-Exportdatei gefunden", zap.String("path", path))
		return path, nil
	}

	if f.Config.DrugbankUsername == "" || f.Config.DrugbankPassword == "" {
		return "", fmt.Errorf(
			"DrugBank-Exportdatei fehlt unter %s. Lege die Datei dort ab oder setze "+
				"DRUGBANK_USERNAME und DRUGBANK_PASSWORD, damit sie von %s geladen werden kann "+
				"(ein DrugBank-Account mit Download-Lizenz ist erforderlich)",
			path, f.Config.DrugbankURL)
	}

	f.Logger.Info("Lade DrugBank-Export herunter", zap.String("url", f.Config.DrugbankURL))
	if err := f.download(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// download lädt den Export mit Basic-Auth herunter und schreibt ihn atomar
// über eine temporäre Datei.
func (f *Fetcher) download(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("Datenverzeichnis konnte nicht angelegt werden: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Config.DrugbankURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(f.Config.DrugbankUsername, f.Config.DrugbankPassword)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("DrugBank-Download fehlgeschlagen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DrugBank-Download fehlgeschlagen: Status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "drugbank-*.xml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("DrugBank-Download konnte nicht gespeichert werden: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	f.Logger.Info("DrugBank-Export gespeichert",
		zap.String("path", path),
		zap.Int64("bytes", written))
	return nil
}
