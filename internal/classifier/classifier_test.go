package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agentmail/internal/model"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		sender string
		want   model.Classification
	}{
		{
			name:   "subpoena in title",
			title:  "Subpoena for records",
			sender: "ABC Corp",
			want:   model.Classification{Type: TypeLegalNotice, Category: CategorySubpoena, UrgencyLevel: model.UrgencyUrgent},
		},
		{
			name:   "summons upper case",
			title:  "SUMMONS AND COMPLAINT",
			sender: "Law Offices of Smith",
			want:   model.Classification{Type: TypeLegalNotice, Category: CategorySubpoena, UrgencyLevel: model.UrgencyUrgent},
		},
		{
			name:   "court sender",
			title:  "Notice of Hearing",
			sender: "Superior Court of California",
			want:   model.Classification{Type: TypeCourtDocument, Category: CategoryLegalProceeding, UrgencyLevel: model.UrgencyUrgent},
		},
		{
			name:   "court beats tax",
			title:  "Tax Court Order",
			sender: "Clerk",
			want:   model.Classification{Type: TypeCourtDocument, Category: CategoryLegalProceeding, UrgencyLevel: model.UrgencyUrgent},
		},
		{
			name:   "irs sender",
			title:  "Notice CP2000",
			sender: "IRS",
			want:   model.Classification{Type: TypeTaxNotice, Category: CategoryTaxAssessment, UrgencyLevel: model.UrgencyUrgent},
		},
		{
			name:   "franchise tax title resolves as tax notice",
			title:  "Franchise Tax Statement",
			sender: "Comptroller",
			want:   model.Classification{Type: TypeTaxNotice, Category: CategoryTaxAssessment, UrgencyLevel: model.UrgencyUrgent},
		},
		{
			name:   "annual report before secretary of state",
			title:  "Annual Report Due",
			sender: "Secretary of State",
			want:   model.Classification{Type: TypeAnnualReport, Category: CategoryComplianceNotice, UrgencyLevel: model.UrgencyNormal},
		},
		{
			name:   "state of sender",
			title:  "Change of Address Confirmation",
			sender: "State of Nevada",
			want:   model.Classification{Type: TypeLegalNotice, Category: CategoryComplianceNotice, UrgencyLevel: model.UrgencyNormal},
		},
		{
			name:   "default",
			title:  "Invoice",
			sender: "Acme Supplies",
			want:   model.Classification{Type: TypeOther, Category: CategoryGeneralCorrespondence, UrgencyLevel: model.UrgencyNormal},
		},
		{
			name: "empty input",
			want: model.Classification{Type: TypeOther, Category: CategoryGeneralCorrespondence, UrgencyLevel: model.UrgencyNormal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.sender))
		})
	}
}

func TestHasLegalKeyword(t *testing.T) {
	assert.True(t, HasLegalKeyword("Official LEGAL NOTICE enclosed"))
	assert.True(t, HasLegalKeyword("From the IRS"))
	assert.True(t, HasLegalKeyword("Lawsuit filed"))
	assert.False(t, HasLegalKeyword("Quarterly newsletter"))
	assert.False(t, HasLegalKeyword(""))
}
