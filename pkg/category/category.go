package category

// Entry is a single (class, label) pair inside a category.
type Entry struct {
	Class int    `json:"class"`
	Label string `json:"label"`
}

// Keys lists every category key in canonical order. The analyze pipeline
// classifies the subject along each of these axes.
var Keys = []string{
	"Male/Female",
	"EmomainCategory",
	"EmoCategory",
	"Face",
	"EyeShape",
	"NoseShape",
	"MouthShape",
}

// KoreanNames maps category keys to their Korean display names, used when
// building prompts.
var KoreanNames = map[string]string{
	"Male/Female":     "성별",
	"EmomainCategory": "감정 구분",
	"EmoCategory":     "감정 분류",
	"Face":            "얼굴형",
	"EyeShape":        "눈 모양",
	"NoseShape":       "코 모양",
	"MouthShape":      "입 모양",
}

// DescriptionNames lists the description categories in the order the combined
// narrative is assembled. Reassembly looks items up by name, so the order of
// an incoming description array never matters.
var DescriptionNames = []string{"상황", "위치", "얼굴", "복장", "감정"}

var registry = map[string][]Entry{
	"Male/Female": {
		{Class: 1, Label: "남자"},
		{Class: 2, Label: "여자"},
	},
	"EmomainCategory": {
		{Class: 1, Label: "긍정"},
		{Class: 2, Label: "부정"},
		{Class: 3, Label: "중립"},
	},
	"EmoCategory": {
		{Class: 1, Label: "즐거움"},
		{Class: 2, Label: "열의"},
		{Class: 3, Label: "평온"},
		{Class: 4, Label: "분노"},
		{Class: 5, Label: "불안"},
		{Class: 6, Label: "슬픔"},
		{Class: 7, Label: "중립"},
	},
	"Face": {
		{Class: 1, Label: "둥근형"},
		{Class: 2, Label: "각진형"},
		{Class: 3, Label: "길쭉한형"},
	},
	"EyeShape": {
		{Class: 1, Label: "상향형"},
		{Class: 2, Label: "수평형"},
		{Class: 3, Label: "하향형"},
	},
	"NoseShape": {
		{Class: 1, Label: "직선형"},
		{Class: 2, Label: "곡선형"},
		{Class: 3, Label: "들창코형"},
		{Class: 4, Label: "매부리코형"},
	},
	"MouthShape": {
		{Class: 1, Label: "직선형"},
		{Class: 2, Label: "곡선형"},
		{Class: 3, Label: "하트형"},
	},
}

// Entries returns the ordered (class, label) pairs for a category key, or nil
// when the key is unknown.
func Entries(key string) []Entry {
	return registry[key]
}

// Labels returns just the labels of a category, in class order.
func Labels(key string) []string {
	entries := registry[key]
	if entries == nil {
		return nil
	}
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	return labels
}

// ClassByLabel resolves a label to its class number within a category.
// Matching is exact and case-sensitive. ok is false when the category or
// label is unknown.
func ClassByLabel(key, label string) (int, bool) {
	for _, e := range registry[key] {
		if e.Label == label {
			return e.Class, true
		}
	}
	return 0, false
}

// LabelByClass resolves a class number back to its label within a category.
func LabelByClass(key string, class int) (string, bool) {
	for _, e := range registry[key] {
		if e.Class == class {
			return e.Label, true
		}
	}
	return "", false
}

// Has reports whether key names a known category.
func Has(key string) bool {
	_, ok := registry[key]
	return ok
}
