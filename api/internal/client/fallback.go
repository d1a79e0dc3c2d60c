package client

import "math-tutor/api/internal/ai/types"

// Offline fallback seed content, keyed by the two-value language selector.
// Shown when the backend is unreachable so the start screen never comes up
// empty.

var fallbackExamples = map[types.Language][]types.ExampleProblem{
	types.LangEN: {
		{Problem: "What is 256 + 478?", Topic: "addition", Difficulty: types.DifficultyEasy},
		{Problem: "Solve for x: 3x - 7 = 14", Topic: "linear equations", Difficulty: types.DifficultyMedium},
		{Problem: "A rectangle is 8 cm long and 5 cm wide. What is its area?", Topic: "area", Difficulty: types.DifficultyMedium},
		{Problem: "A train travels 180 km in 2.5 hours. How far does it travel in 4 hours at the same speed?", Topic: "rates", Difficulty: types.DifficultyHard},
	},
	types.LangAR: {
		{Problem: "ما ناتج 256 + 478؟", Topic: "الجمع", Difficulty: types.DifficultyEasy},
		{Problem: "أوجد قيمة س: 3س - 7 = 14", Topic: "المعادلات الخطية", Difficulty: types.DifficultyMedium},
		{Problem: "مستطيل طوله 8 سم وعرضه 5 سم. ما مساحته؟", Topic: "المساحة", Difficulty: types.DifficultyMedium},
		{Problem: "يقطع قطار 180 كم في ساعتين ونصف. ما المسافة التي يقطعها في 4 ساعات بنفس السرعة؟", Topic: "المعدلات", Difficulty: types.DifficultyHard},
	},
}

var fallbackFacts = map[types.Language]string{
	types.LangEN: "Zero is the only number that cannot be represented in Roman numerals.",
	types.LangAR: "الصفر هو الرقم الوحيد الذي لا يمكن تمثيله بالأرقام الرومانية.",
}

// FallbackInitialData returns the deterministic offline seed content for a
// language. Unknown selectors fall back to English.
func FallbackInitialData(lang types.Language) types.InitialDataResponse {
	if !lang.Valid() {
		lang = types.LangEN
	}
	examples := make([]types.ExampleProblem, len(fallbackExamples[lang]))
	copy(examples, fallbackExamples[lang])
	return types.InitialDataResponse{
		Examples: examples,
		Fact:     fallbackFacts[lang],
		Fallback: true,
	}
}
