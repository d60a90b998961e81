package drugbank

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// ErrUnexpectedElement zeigt eine Schema-Verletzung an: unter dem
// Dokument-Root wurde ein anderes Element als <drug> gefunden.
var ErrUnexpectedElement = fmt.Errorf("drugbank: unexpected element below document root")

// ParseDocument liest den kompletten DrugBank-Export aus r und gibt alle
// Drug-Elemente in Dokument-Reihenfolge zurück. Der gesamte Inhalt wird in
// den Speicher geladen; bei der vollen Datenbank dauert das etwa eine Minute.
func ParseDocument(r io.Reader, logger *zap.Logger) ([]DrugEntry, error) {
	start := time.Now()
	decoder := xml.NewDecoder(r)

	var drugs []DrugEntry
	rootSeen := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("drugbank: XML-Dekodierung fehlgeschlagen: %w", err)
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		if !rootSeen {
			if se.Name.Local != "drugbank" {
				return nil, fmt.Errorf("%w: Root-Element <%s>", ErrUnexpectedElement, se.Name.Local)
			}
			rootSeen = true
			continue
		}

		// Vertragsverletzung, kein behandelbarer Laufzeitfehler: direkt unter
		// dem Root sind nur <drug>-Elemente zulässig.
		if se.Name.Local != "drug" {
			return nil, fmt.Errorf("%w: <%s> statt <drug>", ErrUnexpectedElement, se.Name.Local)
		}

		var entry DrugEntry
		if err := decoder.DecodeElement(&entry, &se); err != nil {
			return nil, fmt.Errorf("drugbank: Drug-Element konnte nicht dekodiert werden: %w", err)
		}
		drugs = append(drugs, entry)
	}

	if logger != nil {
		logger.Info("DrugBank-Export geparst",
			zap.Int("drugs", len(drugs)),
			zap.Duration("duration", time.Since(start)))
	}
	return drugs, nil
}

// ParseFile öffnet die Exportdatei und parst sie vollständig. Eine fehlende
// Datei wird als eigener Fehler gemeldet, damit der Aufrufer eine
// Handlungsanweisung ausgeben kann.
func ParseFile(path string, logger *zap.Logger) ([]DrugEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("drugbank: Exportdatei %s konnte nicht geöffnet werden: %w", path, err)
	}
	defer file.Close()

	return ParseDocument(file, logger)
}
