package eval

// Category labels how answerable a curated question is expected to be. The
// categories are manually curated test inputs; nothing scores against them
// automatically.
type Category string

const (
	Answerable              Category = "answerable"
	PartiallyAnswerable     Category = "partially_answerable"
	PotentiallyUnanswerable Category = "potentially_unanswerable"
	Unanswerable            Category = "unanswerable"
)

// Question is one curated evaluation input with a note on what a good answer
// should contain.
type Question struct {
	Query    string
	Expected string
	Category Category
}

// Questions returns the fixed evaluation set: a mix of answerable, partially
// answerable, and unanswerable questions about the policy document.
func Questions() []Question {
	return []Question{
		{
			Query:    "What is the refund policy for products?",
			Expected: "Should mention timeframe, conditions, and process for refunds",
			Category: Answerable,
		},
		{
			Query:    "What happens if a Wellness Advocate violates the intellectual property usage rules?",
			Expected: "Should mention termination of rights, injunctive relief, and other remedies available to the company",
			Category: Answerable,
		},
		{
			Query:    "Are Wellness Advocates allowed to sell products on online marketplaces?",
			Expected: "Should state that online marketplace sales are prohibited without written company authorization",
			Category: Answerable,
		},
		{
			Query:    "Does the company provide legal protection if a customer claims injury from a product?",
			Expected: "Should explain company defense obligations and the exceptions to indemnification",
			Category: Answerable,
		},
		{
			Query:    "Does the policy specify which social media platforms are allowed for promotion?",
			Expected: "Should mention some platforms explicitly but note that not all platforms are exhaustively listed",
			Category: PartiallyAnswerable,
		},
		{
			Query:    "What is the company's policy on damaged products?",
			Expected: "Should explain how to handle damaged items",
			Category: Answerable,
		},
		{
			Query:    "How do I become a wholesale member?",
			Expected: "May not be in standard policy docs",
			Category: PotentiallyUnanswerable,
		},
		{
			Query:    "What is the weather like in the company headquarters?",
			Expected: "Completely outside scope of policy documents",
			Category: Unanswerable,
		},
	}
}
