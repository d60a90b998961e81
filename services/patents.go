package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"drug-graph/config"
	"drug-graph/models"
	"drug-graph/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomTransport fügt jeder Anfrage einen User-Agent-Header hinzu.
type CustomTransport struct {
	Transport http.RoundTripper
}

func (t *CustomTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	return t.Transport.RoundTrip(req)
}

// httpClient wird für alle externen HTTP-Anfragen in diesem Service verwendet.
var httpClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &CustomTransport{
		Transport: http.DefaultTransport,
	},
}

// patentPDFRegex findet PDF-Links auf den Google-Patents-Seiten.
var patentPDFRegex = regexp.MustCompile(`(?i)https?://patentimages\.storage\.googleapis\.com/[^"'\s]+/([A-Za-z0-9]+\.pdf)`)

// patentCountryPrefixes bildet Länder auf Google-Patents-Präfixe ab. Länder
// ohne Eintrag werden beim Spiegeln übersprungen.
var patentCountryPrefixes = map[string]string{
	"United States": "US",
	"Canada":        "CA",
}

// PatentService exportiert Patente und Cross-Referenzen und spiegelt
// Patent-PDFs von Google Patents nach S3.
type PatentService struct {
	Config   *config.Config
	DB       *gorm.DB
	S3Client *s3.Client
	Logger   *zap.Logger
}

// NewPatentService erstellt eine neue Instanz des PatentService.
func NewPatentService(cfg *config.Config, db *gorm.DB, s3Client *s3.Client, logger *zap.Logger) *PatentService {
	return &PatentService{Config: cfg, DB: db, S3Client: s3Client, Logger: logger}
}

// List gibt alle Patente zurück.
func (p *PatentService) List() ([]models.Patent, error) {
	var patents []models.Patent
	if err := p.DB.Order("country, patent_id").Find(&patents).Error; err != nil {
		return nil, err
	}
	return patents, nil
}

// ExportTSV schreibt alle Patente als Tab-getrennten Text.
func (p *PatentService) ExportTSV(w io.Writer) error {
	patents, err := p.List()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "country\tpatent_id\tapproved\texpires\tpediatric_extension"); err != nil {
		return err
	}
	for _, patent := range patents {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
			patent.Country,
			patent.PatentID,
			formatDate(patent.Approved),
			formatDate(patent.Expires),
			patent.PediatricExtension)
		if err != nil {
			return err
		}
	}
	return nil
}

// XrefSummary zählt die Cross-Referenzen je Ressource.
func (p *PatentService) XrefSummary() (map[string]int64, error) {
	var rows []struct {
		Resource string
		Count    int64
	}
	err := p.DB.
		Model(&models.DrugXref{}).
		Select("resource, COUNT(*) AS count").
		Group("resource").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	rv := make(map[string]int64, len(rows))
	for _, row := range rows {
		rv[row.Resource] = row.Count
	}
	return rv, nil
}

// ExportXrefsTSV schreibt die Cross-Referenzen einer Ressource als
// Tab-getrennten Text (drugbank_id, identifier).
func (p *PatentService) ExportXrefsTSV(w io.Writer, resource string) error {
	var rows []struct {
		DrugbankID string
		Identifier string
	}
	err := p.DB.
		Model(&models.DrugXref{}).
		Select("drugs.drugbank_id AS drugbank_id, drug_xrefs.identifier AS identifier").
		Joins("JOIN drugs ON drugs.id = drug_xrefs.drug_id").
		Where("drug_xrefs.resource = ?", resource).
		Order("drugs.drugbank_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "drugbank_id\tidentifier"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", row.DrugbankID, row.Identifier); err != nil {
			return err
		}
	}
	return nil
}

// MirrorPDFs crawlt für jedes Patent die Google-Patents-Seite, lädt die
// verlinkten PDF-Dokumente herunter und legt sie in S3 ab. Fehler einzelner
// Patente werden geloggt und übersprungen, der Lauf bricht nie ab.
func (p *PatentService) MirrorPDFs(ctx context.Context) (int, error) {
	patents, err := p.List()
	if err != nil {
		return 0, err
	}

	uploaded := 0
	for _, patent := range patents {
		prefix, ok := patentCountryPrefixes[patent.Country]
		if !ok {
			p.Logger.Debug("Kein Google-Patents-Präfix für Land, Patent wird übersprungen",
				zap.String("country", patent.Country), zap.String("patent_id", patent.PatentID))
			continue
		}

		pageURL := fmt.Sprintf("https://patents.google.com/patent/%s%s", prefix, patent.PatentID)
		count, err := p.mirrorPatentPage(ctx, pageURL)
		if err != nil {
			p.Logger.Warn("Patent-PDFs konnten nicht gespiegelt werden",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}
		uploaded += count
	}

	p.Logger.Info("Patent-PDF-Spiegelung abgeschlossen",
		zap.Int("patents", len(patents)), zap.Int("uploaded", uploaded))
	return uploaded, nil
}

// mirrorPatentPage lädt eine Google-Patents-Seite, extrahiert die PDF-Links
// und lädt jedes Dokument nach S3 hoch.
func (p *PatentService) mirrorPatentPage(ctx context.Context, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	uploaded := 0
	for _, match := range patentPDFRegex.FindAllStringSubmatch(string(body), -1) {
		link, filename := match[0], match[1]

		data, err := p.downloadPDF(ctx, link)
		if err != nil {
			p.Logger.Warn("Patent-PDF-Download fehlgeschlagen", zap.String("url", link), zap.Error(err))
			continue
		}

		key := "patents/" + filename
		s3link, err := storage.UploadFile(p.S3Client, p.Config.StratoS3Bucket, key, data, p.Config)
		if err != nil {
			p.Logger.Error("S3-Upload für Patent-PDF fehlgeschlagen", zap.String("key", key), zap.Error(err))
			continue
		}

		p.Logger.Info("Patent-PDF gespiegelt", zap.String("s3_link", s3link))
		uploaded++
	}
	return uploaded, nil
}

func (p *PatentService) downloadPDF(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// formatDate formatiert ein optionales Datum als ISO-String.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
