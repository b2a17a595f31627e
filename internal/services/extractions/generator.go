package extractions

import (
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
)

// legalPhrases is the fixed phrase set placeholder extractions draw from
var legalPhrases = []string{
	"The parties hereby agree to the following terms and conditions:",
	"In accordance with Section 2.1 of the Agreement,",
	"Subject to applicable laws and regulations,",
	"The undersigned parties mutually agree that,",
	"Notwithstanding anything to the contrary herein,",
	"This Agreement shall be governed by and construed in accordance with,",
	"For the avoidance of doubt,",
	"Without limiting the generality of the foregoing,",
	"The parties acknowledge and agree that,",
	"In witness whereof, the parties have executed this Agreement as of",
}

// Generator produces placeholder extraction sets for newly created
// documents. It stands in for a real text-extraction pipeline.
type Generator struct{}

// NewGenerator creates a new placeholder extraction generator
func NewGenerator() interfaces.ExtractionGenerator {
	return &Generator{}
}

// Generate returns 8-12 extractions spread across pages 1-5, sorted by
// page number
func (g *Generator) Generate(documentID string) *models.ExtractionSet {
	count := rand.IntN(5) + 8

	items := make([]models.Extraction, count)
	for i := range items {
		items[i] = models.Extraction{
			ID:         uuid.New().String(),
			Text:       legalPhrases[rand.IntN(len(legalPhrases))],
			PageNumber: (i % 5) + 1,
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].PageNumber < items[b].PageNumber
	})

	return &models.ExtractionSet{
		DocumentID:  documentID,
		Extractions: items,
	}
}
