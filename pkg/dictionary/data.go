package dictionary

import "regexp"

// commonMisspellings maps known bad spellings to their canonical fix.
// Checked before dictionary validity so a corpus-contaminated word list
// cannot mask a correction. Values may be multi-token ("alot" -> "a lot").
var commonMisspellings = map[string]string{
	"teh":        "the",
	"adn":        "and",
	"hte":        "the",
	"taht":       "that",
	"thier":      "their",
	"recieve":    "receive",
	"occured":    "occurred",
	"occurance":  "occurrence",
	"seperate":   "separate",
	"definately": "definitely",
	"publically": "publicly",
	"untill":     "until",
	"wich":       "which",
	"begining":   "beginning",
	"refered":    "referred",
	"accross":    "across",
	"thru":       "through",
	"goverment":  "government",
	"enviroment": "environment",
	"realy":      "really",
	"wierd":      "weird",
	"beleive":    "believe",
	"acheive":    "achieve",
	"existance":  "existence",
	"occassion":  "occasion",
	"necesary":   "necessary",
	"neccessary": "necessary",
	"tommorow":   "tomorrow",
	"tommorrow":  "tomorrow",
	"succesful":  "successful",
	"basicly":    "basically",
	"finaly":     "finally",
	"freind":     "friend",
	"mispell":    "misspell",
	// compound word errors
	"alot":     "a lot",
	"aswell":   "as well",
	"infact":   "in fact",
	"ofcourse": "of course",
}

// PhoneticRule rewrites a shorthand or phonetic spelling into a full word.
// Rules run in order, last resort only.
type PhoneticRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

var phoneticRules = []PhoneticRule{
	{regexp.MustCompile(`\bnite\b`), "night"},
	{regexp.MustCompile(`\blite\b`), "light"},
	{regexp.MustCompile(`\bthru\b`), "through"},
	{regexp.MustCompile(`\bu\b`), "you"},
	{regexp.MustCompile(`\bur\b`), "your"},
	{regexp.MustCompile(`\br\b`), "are"},
	{regexp.MustCompile(`\bc\b`), "see"},
	{regexp.MustCompile(`\bk\b`), "okay"},
	{regexp.MustCompile(`\bppl\b`), "people"},
	{regexp.MustCompile(`\bmsg\b`), "message"},
	{regexp.MustCompile(`\btxt\b`), "text"},
	{regexp.MustCompile(`\bthx\b`), "thanks"},
	{regexp.MustCompile(`\bpls\b`), "please"},
}

// Frequency tiers. Membership decides the weight used by candidate scoring;
// anything outside every tier weighs 1.0.
const (
	tier1Weight = 10.0
	tier2Weight = 5.0
	tier3Weight = 3.0
	tier4Weight = 1.5
	// DefaultWeight is the weight for words outside every tier.
	DefaultWeight = 1.0
)

var frequencyTiers = []struct {
	weight float64
	words  []string
}{
	{tier1Weight, []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	}},
	{tier2Weight, []string{
		"this", "but", "his", "by", "from", "they", "we", "say", "her",
		"she", "or", "an", "will", "my", "one", "all", "would", "there",
		"their", "what",
	}},
	{tier3Weight, []string{
		"so", "up", "out", "if", "about", "who", "get", "which", "go",
		"me", "when", "make", "can", "like", "time", "no", "just", "him",
		"know", "take",
	}},
	{tier4Weight, []string{
		"people", "into", "year", "your", "good", "some", "could", "them",
		"see", "other", "than", "then", "now", "look", "only", "come",
		"its", "over", "think", "also", "back", "after", "use", "two",
		"how", "our", "work", "first", "well",
	}},
}
