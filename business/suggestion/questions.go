package suggestion

import "productInfoAgent/domain"

const varietyPick = 3

type question struct {
	Text     string
	Priority int
}

var varietyPool = []question{
	{"What makes this product special?", 50},
	{"Who is this product best suited for?", 60},
	{"How does this compare to similar products?", 70},
	{"What are customers saying about this product?", 80},
	{"Are there any special care instructions?", 90},
	{"What warranty or guarantee comes with this?", 100},
}

// buildQuestions returns the base questions for product, the conditional
// ones its data supports, and varietyPick questions from the shuffled pool.
func buildQuestions(product domain.Product, shuffle func(n int, swap func(i, j int))) []question {
	out := []question{
		{"Tell me more about " + product.Name, 10},
		{"What are the key features of this product?", 20},
		{"How do I use this product?", 30},
		{"What other products would you recommend with this?", 40},
	}

	if product.ShortDescription != "" || product.Description != "" {
		out = append(out, question{"Can you summarize the description for me?", 15})
	}
	if product.Weight != 0 {
		out = append(out, question{"How much does this product weigh?", 25})
	}
	if product.Price != 0 {
		out = append(out, question{"Is this product good value for money?", 35})
	}

	pool := make([]question, len(varietyPool))
	copy(pool, varietyPool)
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	return append(out, pool[:varietyPick]...)
}
