package digest

// Result is the local digest of a document.
type Result struct {
	Summary string
	Tags    []string
}

// Digest computes both the summary and the tag set of text.
func Digest(text string) Result {
	return Result{
		Summary: Summarize(text),
		Tags:    ExtractTags(text),
	}
}
