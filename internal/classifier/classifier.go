// Package classifier assigns a type, category and urgency to received mail from its title and sender.
package classifier

import (
	"strings"

	"agentmail/internal/model"
)

// Document types.
const (
	TypeLegalNotice   = "legal_notice"
	TypeCourtDocument = "court_document"
	TypeTaxNotice     = "tax_notice"
	TypeAnnualReport  = "annual_report"
	TypeOther         = "other"
)

// Document categories.
const (
	CategorySubpoena              = "subpoena"
	CategoryLegalProceeding       = "legal_proceeding"
	CategoryTaxAssessment         = "tax_assessment"
	CategoryComplianceNotice      = "compliance_notice"
	CategoryGeneralCorrespondence = "general_correspondence"
)

type rule struct {
	titleAny  []string
	senderAny []string
	result    model.Classification
}

func (r rule) matches(title, sender string) bool {
	return containsAny(title, r.titleAny) || containsAny(sender, r.senderAny)
}

// rules are evaluated in order and the first match wins.
var rules = []rule{
	{
		titleAny: []string{"subpoena", "summons", "lawsuit"},
		result:   model.Classification{Type: TypeLegalNotice, Category: CategorySubpoena, UrgencyLevel: model.UrgencyUrgent},
	},
	{
		titleAny:  []string{"court"},
		senderAny: []string{"court"},
		result:    model.Classification{Type: TypeCourtDocument, Category: CategoryLegalProceeding, UrgencyLevel: model.UrgencyUrgent},
	},
	{
		titleAny:  []string{"tax"},
		senderAny: []string{"irs", "tax"},
		result:    model.Classification{Type: TypeTaxNotice, Category: CategoryTaxAssessment, UrgencyLevel: model.UrgencyUrgent},
	},
	{
		titleAny: []string{"annual report", "franchise tax"},
		result:   model.Classification{Type: TypeAnnualReport, Category: CategoryComplianceNotice, UrgencyLevel: model.UrgencyNormal},
	},
	{
		senderAny: []string{"secretary of state", "state of"},
		result:    model.Classification{Type: TypeLegalNotice, Category: CategoryComplianceNotice, UrgencyLevel: model.UrgencyNormal},
	},
}

var fallback = model.Classification{
	Type:         TypeOther,
	Category:     CategoryGeneralCorrespondence,
	UrgencyLevel: model.UrgencyNormal,
}

// Categorize classifies a document by case-insensitive substring matching on its title and sender.
func Categorize(title, sender string) model.Classification {
	t := strings.ToLower(title)
	s := strings.ToLower(sender)
	for _, r := range rules {
		if r.matches(t, s) {
			return r.result
		}
	}
	return fallback
}

// legalKeywords mark text that always makes a document urgent.
var legalKeywords = []string{"subpoena", "summons", "lawsuit", "court", "legal notice", "irs", "tax"}

// HasLegalKeyword reports whether text mentions any legal keyword, ignoring case.
func HasLegalKeyword(text string) bool {
	return containsAny(strings.ToLower(text), legalKeywords)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
