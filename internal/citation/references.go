package citation

import (
	"strconv"
	"strings"

	"github.com/verimed/citegate/internal/model"
)

// ExtractReferences locates the response's References section and parses it
// into structured reference records. A missing section yields an empty
// list, never an error: the validator treats that as a structural fact.
func ExtractReferences(response string) []model.Reference {
	section := referencesSection(response)
	if section == "" {
		return nil
	}

	starts := referenceItemPattern.FindAllStringSubmatchIndex(section, -1)
	if starts == nil {
		return nil
	}

	refs := make([]model.Reference, 0, len(starts))
	for i, loc := range starts {
		// loc[2]:loc[3] is the ordinal capture, loc[1] the end of the
		// "N. " prefix. The body runs to the next item start so wrapped
		// continuation lines stay with their entry.
		end := len(section)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}

		number, err := strconv.Atoi(section[loc[2]:loc[3]])
		if err != nil {
			continue
		}

		text := strings.TrimSpace(section[loc[1]:end])
		refs = append(refs, parseReference(number, text))
	}

	return refs
}

// referencesSection captures everything after a References heading up to
// the next heading of the same or higher level, or end of text. Returns
// "" when no References heading exists.
func referencesSection(response string) string {
	heading := referencesHeadingPattern.FindStringIndex(response)
	if heading == nil {
		return ""
	}

	rest := response[heading[1]:]
	if next := headingPattern.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}

	return rest
}

// parseReference extracts the optional identifiers from one reference's
// text. Each identifier type is independent; the first match of each wins.
func parseReference(number int, text string) model.Reference {
	ref := model.Reference{
		Number: number,
		Text:   text,
	}

	if m := pmidPattern.FindStringSubmatch(text); m != nil {
		ref.PMID = m[1]
	}
	if m := doiPattern.FindStringSubmatch(text); m != nil {
		ref.DOI = NormalizeDOI(m[1])
	}
	if m := nctPattern.FindStringSubmatch(text); m != nil {
		ref.NCTID = normalizeNCT(m[1])
	}

	return ref
}
