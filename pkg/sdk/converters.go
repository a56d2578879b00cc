package papyrus

import (
	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
	"github.com/kailas-cloud/papyrus/internal/domain/search/result"
)

func textFromDomain(t domain.Text) Text { return Text{EN: t.EN, FA: t.FA} }

func paperFromDomain(p dompaper.Paper) Paper {
	return Paper{
		ID:        p.ID(),
		Title:     textFromDomain(p.Title()),
		Authors:   p.Authors(),
		Abstract:  textFromDomain(p.Abstract()),
		Year:      p.Year(),
		DOI:       p.DOI(),
		URL:       p.URL(),
		Journal:   p.Journal(),
		AISummary: textFromDomain(p.AISummary()),
		DateAdded: p.DateAdded(),
	}
}

func papersFromDomain(papers []dompaper.Paper) []Paper {
	out := make([]Paper, len(papers))
	for i, p := range papers {
		out[i] = paperFromDomain(p)
	}
	return out
}

func libraryFromDomain(l domlib.Library) Library {
	return Library{ID: l.ID(), Name: l.Name(), PaperIDs: l.PaperIDs(), CreatedAt: l.CreatedAt()}
}

func reviewFromDomain(r domreview.LiteratureReview) Review {
	return Review{
		ID:        r.ID(),
		Kind:      ReviewKind(r.Kind()),
		Title:     r.Title(),
		Content:   r.Content(),
		Language:  Language(r.Language()),
		PaperIDs:  r.PaperIDs(),
		CreatedAt: r.CreatedAt(),
	}
}

func searchResultFromDomain(r result.Result) SearchResult {
	return SearchResult{
		Papers:  papersFromDomain(r.Papers()),
		Total:   r.Total(),
		Page:    r.Page(),
		HasMore: r.HasMore(),
	}
}

func languageToDomain(l Language) (domain.Language, error) {
	return domain.ParseLanguage(string(l)) //nolint:wrapcheck // already carries ErrInvalidInput
}
