package app

// FallbackQuote is one literal (text, author) pair served when the
// generator cannot produce a quote.
type FallbackQuote struct {
	Text   string
	Author string
}

var fallbackQuotes = [...]FallbackQuote{
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"In the middle of every difficulty lies opportunity.", "Albert Einstein"},
	{"Happiness is not something ready made. It comes from your own actions.", "Dalai Lama"},
	{"It does not matter how slowly you go as long as you do not stop.", "Confucius"},
	{"Success is not final, failure is not fatal: it is the courage to continue that counts.", "Winston Churchill"},
	{"The journey of a thousand miles begins with one step.", "Lao Tzu"},
	{"Life is what happens when you're busy making other plans.", "John Lennon"},
	{"Believe you can and you're halfway there.", "Theodore Roosevelt"},
	{"Keep your face always toward the sunshine, and shadows will fall behind you.", "Walt Whitman"},
	{"What lies behind us and what lies before us are tiny matters compared to what lies within us.", "Ralph Waldo Emerson"},
}

// FallbackQuotes returns a copy of the fallback list.
func FallbackQuotes() []FallbackQuote {
	out := make([]FallbackQuote, len(fallbackQuotes))
	copy(out, fallbackQuotes[:])

	return out
}
