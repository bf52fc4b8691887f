package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"

	"github.com/mailroom-dev/mailroom/internal/common"
)

// AzureExtractor reads dense page text through the computervision OCR
// endpoint.
type AzureExtractor struct {
	client   *computervision.BaseClient
	endpoint string
	key      string
	logger   *slog.Logger
}

// NewAzureExtractor fails when endpoint or key is missing so the caller
// can fall back at startup instead of on the first page.
func NewAzureExtractor(endpoint, key string, logger *slog.Logger) (*AzureExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if endpoint == "" || key == "" {
		return nil, common.DependencyError("azure computervision endpoint/key not configured")
	}
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)
	return &AzureExtractor{
		client:   &client,
		endpoint: endpoint,
		key:      key,
		logger:   logger,
	}, nil
}

func (a *AzureExtractor) Name() string { return "azure" }

func (a *AzureExtractor) Available() bool {
	return a.endpoint != "" && a.key != ""
}

func (a *AzureExtractor) ExtractPage(ctx context.Context, png []byte) (string, error) {
	result, err := a.client.RecognizePrintedTextInStream(
		ctx,
		true, // detect orientation
		io.NopCloser(bytes.NewReader(png)),
		computervision.OcrLanguages(computervision.En),
	)
	if err != nil {
		return "", fmt.Errorf("azure ocr: %w", err)
	}

	text := flattenOCRResult(result)
	a.logger.Debug("ocr.azure.page_ok", "chars", len(text))
	return strings.TrimSpace(text), nil
}

// flattenOCRResult joins recognized words back into lines in reading
// order, one line per OCR line, blank line between regions.
func flattenOCRResult(result computervision.OcrResult) string {
	if result.Regions == nil {
		return ""
	}
	var b strings.Builder
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			var words []string
			for _, word := range *line.Words {
				if word.Text != nil {
					words = append(words, *word.Text)
				}
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
