package domain

// DefaultGeneratePrompt asks for one opinion poll as bare JSON.
const DefaultGeneratePrompt = `Respond only with JSON containing field "question" and array "answers". ` +
	`Question should be random question about opinion. ` +
	`There should be 4 answers, each answer should be 35 chars max, last should be funny.`

// DefaultSimilarityPrompt is a text/template rendered with .Sentences, where
// the first sentence is the candidate and the rest are recent history.
const DefaultSimilarityPrompt = `Respond only with JSON containing a single field "similarity" with a float value between 0 and 1.
Compare Sentence 1 with every other sentence below and report the highest semantic similarity between Sentence 1 and any one of them, where 1 means they ask the same thing.
{{range $i, $s := .Sentences}}Sentence {{inc $i}}: {{$s}}
{{end}}`
