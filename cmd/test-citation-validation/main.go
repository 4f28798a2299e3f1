// Test program to demonstrate citation verification
// This shows the verdict for a handful of hand-written response/evidence pairs
package main

import (
	"fmt"
	"strings"

	"github.com/verimed/citegate/internal/citation"
)

type scenario struct {
	name     string
	response string
	evidence string
}

func main() {
	scenarios := []scenario{
		{
			name: "fully supported",
			response: `Aspirin reduces the risk of major cardiovascular events ^[1]^ and
is recommended for secondary prevention [2].

## References
1. Smith J, et al. Aspirin in primary prevention. PMID: 31348216
2. ARRIVE trial results. DOI: 10.1016/S0140-6736(18)31924-X
`,
			evidence: `Randomized trial of aspirin. PMID: 31348216.
ARRIVE study, DOI: 10.1016/S0140-6736(18)31924-X, enrolled 12546 patients.`,
		},
		{
			name: "hallucinated PMID",
			response: `Metformin improves outcomes in type 2 diabetes ^[1]^.

## References
1. Invented study of metformin. PMID: 99999999
`,
			evidence: `UKPDS follow-up study of metformin. PMID: 18784090.`,
		},
		{
			name: "exempt FDA source",
			response: `Serious skin reactions have been reported with this drug [1].

## References
1. FDA FAERS database, adverse event reports 2020-2023.
`,
			evidence: ``,
		},
		{
			name: "trial identifier case",
			response: `The study is ongoing ^[1]^.

## References
1. Semaglutide cardiovascular outcomes trial. nct03574597
`,
			evidence: `SELECT trial registered as NCT03574597.`,
		},
		{
			name: "missing references section",
			response: `This claim is cited ^[1]^ but no reference list follows.`,
			evidence: `Some evidence. PMID: 12345.`,
		},
	}

	fmt.Println("=== Citation Verification Test ===")
	fmt.Println()

	for _, s := range scenarios {
		fmt.Printf("Scenario: %s\n", s.name)
		fmt.Println(strings.Repeat("-", 60))

		result := citation.ValidateCitations(s.response, s.evidence)
		fmt.Println(citation.FormatValidationResults(result))
		fmt.Println()
	}

	fmt.Println("=== Test Complete ===")
	fmt.Println()
	fmt.Println("Note: verification checks identifier presence in evidence text.")
	fmt.Println("It does not judge whether the cited papers support the claims.")
}
