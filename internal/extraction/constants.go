package extraction

// Defaults for the extraction client. Config can override the model name.
const (
	// DefaultModelName is the default Gemini model used for extraction.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultLocaleHint tells the model where amounts and merchants come from.
	DefaultLocaleHint = "User is in India. Currency is INR (₹)."
)
