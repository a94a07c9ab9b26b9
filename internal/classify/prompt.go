package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NotFound is the id the model uses when no feature matches.
const NotFound = "NOT_FOUND"

type exampleFeature struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Spec           string   `json:"spec"`
	CompatFeatures []string `json:"compat_features"`
}

var exampleFeatures = map[string]exampleFeature{
	"abbr": {
		Name:           "<abbr>",
		Description:    "The `<abbr>` HTML element represents an abbreviation or acronym.",
		Spec:           "https://html.spec.whatwg.org/#the-abbr-element",
		CompatFeatures: []string{"html.elements.abbr"},
	},
	"aborting": {
		Name:           "AbortController and AbortSignal",
		Description:    "The `AbortController` and `AbortSignal` APIs allow you to cancel an ongoing operation, such as a `fetch()` request.",
		Spec:           "https://dom.spec.whatwg.org/#aborting-ongoing-activities",
		CompatFeatures: []string{"api.AbortController.AbortController", "api.AbortController.signal"},
	},
	"anchor-positioning": {
		Name:        "Anchor positioning",
		Description: "Anchor positioning places an element based on the position of another element.",
		Spec:        "https://drafts.csswg.org/css-anchor-position/",
		CompatFeatures: []string{
			"api.CSSPositionTryRule",
			"css.at-rules.position-try",
			"css.properties.anchor-name",
			"css.properties.position-anchor",
		},
	},
}

var exampleInput = map[string]Entry{
	"1234": {Name: "Abbreviator API", Summary: "Shipping an API to compute common abbreviations for words. Developer feedback is good."},
	"1337": {Name: "@position-try inside mixins", Summary: "Support @position-try in mixins. Previously this was dropped at parse time."},
	"1984": {Name: "Deprecate controller.signal", Summary: "controller.signal is no longer recommended, use cancelable promises instead"},
}

var exampleOutput = map[string]exampleResult{
	"1234": {ID: NotFound, Confidence: 0, Notes: "Not part of web-features. Not related to `<abbr>` which is about displaying abbreviations, not computing them."},
	"1337": {ID: "anchor-positioning", Confidence: 70, Notes: "A change to the `@position-try` which is in the `compat_features` of this feature, but could perhaps be considered part of CSS mixins"},
	"1984": {ID: "aborting", Confidence: 90, Notes: "`controller.signal` refers to `AbortController`'s `signal` property which is part of aborting."},
}

type exampleResult struct {
	ID         string `json:"id"`
	Confidence int    `json:"confidence"`
	Notes      string `json:"notes"`
}

const systemTemplate = `
Your role is an expert on the web platform and its features, from the point of view of a web developer.

Your task is to act as a classification engine for web platform features.

You will be classifying user input against the web-features data set, which will be provided in the prompt as a JSON object on this form:

%[1]s

The ` + "`name` and `description`" + ` fields are the most important to understanding what a feature is. The ` + "`spec`" + ` URL can be useful if the same link appears in the user input, but it's not a strong signal. The ` + "`compat_features`" + ` array is a list of identifiers for the feature's API surface, following a number of conventions. For example "html.elements.a" refers to the HTML element ` + "`<a>`" + `. Use the ` + "`compat_features`" + ` array to get a crisper understanding of what is in scope and out of scope for each feature.

The input will be a JSON object where the keys are unique identifiers and the values are objects with key-value information about the feature being sought. Example input:

%[2]s

There may be other keys than those that appear in this example, use them as you see fit.

The output must be a JSON object using the input keys, and values are objects with ` + "`id`, `confidence`, and `notes`" + ` fields:
- ` + "`id`" + ` (string) is the web-features identifier, one of the top-level keys from the web-features data set.
- ` + "`confidence`" + ` (number) is your confidence in the classification as a integer percentage. Treat it as the probability that the classification is correct. Only use multiples of 10.
- ` + "`notes`" + ` (string) is one or two sentences to help a reviewer focus on what's important. Say why you are certain or uncertain.

Example output:

%[3]s

Rules for classifying the each feature (one of the nested objects in the overall input):
1. Use the web-features data and your knowledge of the web platform to identify the feature the user is most likely referring to.
2. If there is no plausible match, use the special ` + "`id`" + ` "%[4]s".
3. If there is a match, the ` + "`id`" + ` MUST be the web-features identifier. The identifiers are the top-level keys in the web-features data set. No other strings or values are permissible. Additionally provide ` + "`confidence` and `notes`" + ` as described above.

Rules for formatting the response:
1. Your response MUST be a single JSON object.
2. The keys MUST be the same as in the input object.
3. Each value MUST be an object with keys ` + "`id`, `confidence`, and `notes`" + `. All are required, unless ` + "`id`" + ` is the special value "%[4]s".
4. The output MUST be valid JSON.
`

// SystemPrompt returns the instructions sent with every batch.
func SystemPrompt() string {
	return fmt.Sprintf(systemTemplate, fenced(exampleFeatures), fenced(exampleInput), fenced(exampleOutput), NotFound)
}

// Candidate is the part of a web-features feature shown to the model.
type Candidate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Entry is the part of a chromestatus entry shown to the model.
type Entry struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Prompt builds the user prompt for one batch.
func Prompt(candidates map[string]Candidate, batch map[string]Entry) string {
	var b strings.Builder
	b.WriteString("The web-features data set:\n")
	b.WriteString(fenced(candidates))
	b.WriteString("\n\nUser input to classify:\n")
	b.WriteString(fenced(batch))
	b.WriteString("\n")
	return b.String()
}

func fenced(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// plain maps of strings always encode
	_ = enc.Encode(v)
	return "```json\n" + strings.TrimSuffix(buf.String(), "\n") + "\n```"
}

// ExtractJSONObject returns the text between the first '{' and the last
// '}' of a model reply, or nil when there is none.
func ExtractJSONObject(text string) []byte {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil
	}
	return []byte(text[start : end+1])
}
