package citation

import "github.com/verimed/citegate/internal/model"

// ExtractEvidenceIdentifiers scans the entire evidence text once and builds
// the three identifier sets that constitute the ground truth. Unlike the
// per-reference parse, every match across the whole text is collected.
func ExtractEvidenceIdentifiers(evidence string) model.EvidenceIndex {
	index := model.NewEvidenceIndex()

	for _, m := range pmidPattern.FindAllStringSubmatch(evidence, -1) {
		index.PMIDs[m[1]] = true
	}
	for _, m := range doiPattern.FindAllStringSubmatch(evidence, -1) {
		index.DOIs[NormalizeDOI(m[1])] = true
	}
	for _, m := range nctPattern.FindAllStringSubmatch(evidence, -1) {
		index.NCTIDs[normalizeNCT(m[1])] = true
	}

	return index
}
