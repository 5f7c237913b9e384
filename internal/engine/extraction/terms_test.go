// internal/engine/extraction/terms_test.go
package extraction

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTermsBasic(t *testing.T) {
	terms := ExtractTerms("Senior Python developer with Kubernetes and AWS")

	assert.Equal(t, []string{"senior", "python", "developer", "kubernetes", "aws"}, terms)
}

func TestExtractTermsKeepsHyphensAndDots(t *testing.T) {
	terms := ExtractTerms("CI/CD pipelines, Node.js, scikit-learn!")

	assert.Contains(t, terms, "node.js")
	assert.Contains(t, terms, "scikit-learn")
	assert.Contains(t, terms, "ci")
	assert.Contains(t, terms, "cd")
}

func TestExtractTermsDropsStopWordsAndNumbers(t *testing.T) {
	terms := ExtractTerms("5 years of experience with the React framework and 3.5 releases")

	assert.NotContains(t, terms, "years")
	assert.NotContains(t, terms, "experience")
	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "5")
	assert.NotContains(t, terms, "3.5")
	assert.Contains(t, terms, "react")
	assert.Contains(t, terms, "framework")
}

func TestExtractTermsDeduplicatesFirstSeen(t *testing.T) {
	terms := ExtractTerms("python Python PYTHON golang python")

	assert.Equal(t, []string{"python", "golang"}, terms)
}

func TestExtractTermsCapsAtTwenty(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "term%c%c ", 'a'+i/26, 'a'+i%26)
	}

	terms := ExtractTerms(sb.String())

	assert.Len(t, terms, 20)
	assert.Equal(t, "termaa", terms[0])
}

func TestExtractTermsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractTerms(""))
	assert.Empty(t, ExtractTerms("   ...  --- 123 "))
}
