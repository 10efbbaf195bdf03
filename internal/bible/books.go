package bible

import "strings"

const (
	LangEnglish = "en"
	LangDanish  = "da"
)

// SupportedLanguage reports whether lang is one of the language codes the
// registry carries canonical names for.
func SupportedLanguage(lang string) bool {
	return lang == LangEnglish || lang == LangDanish
}

// Book is one canonical book of the 66-book canon. Abbreviations form a
// shared, language-agnostic pool: any abbreviation resolves the book no
// matter which language the caller asked for.
type Book struct {
	Ordinal       int
	English       string
	Danish        string
	Abbreviations []string
}

// Name returns the book's canonical name in the given language, falling
// back to English for unknown language codes.
func (b Book) Name(lang string) string {
	if lang == LangDanish {
		return b.Danish
	}
	return b.English
}

// Books lists the canon in order; ordinals are contiguous 1..66.
var Books = []Book{
	{1, "Genesis", "1 Mosebog", []string{"gen", "ge", "1 mos"}},
	{2, "Exodus", "2 Mosebog", []string{"ex", "2 mos"}},
	{3, "Leviticus", "3 Mosebog", []string{"lev", "le", "3 mos"}},
	{4, "Numbers", "4 Mosebog", []string{"num", "nu", "4 mos"}},
	{5, "Deuteronomy", "5 Mosebog", []string{"deut", "de", "5 mos"}},
	{6, "Joshua", "Josua", []string{"jos"}},
	{7, "Judges", "Dommerbogen", []string{"judg", "jg", "dom"}},
	{8, "Ruth", "Ruths Bog", []string{"ru", "rut"}},
	{9, "1 Samuel", "1 Samuelsbog", []string{"1sa", "1 sam"}},
	{10, "2 Samuel", "2 Samuelsbog", []string{"2sa", "2 sam"}},
	{11, "1 Kings", "1 Kongebog", []string{"1 kgs", "1ki", "1 kong"}},
	{12, "2 Kings", "2 Kongebog", []string{"2 kgs", "2ki", "2 kong"}},
	{13, "1 Chronicles", "1 Krønikebog", []string{"1 chron", "1ch", "1 krøn"}},
	{14, "2 Chronicles", "2 Krønikebog", []string{"2 chron", "2ch", "2 krøn"}},
	{15, "Ezra", "Ezras Bog", []string{"ezr"}},
	{16, "Nehemiah", "Nehemias' Bog", []string{"neh"}},
	{17, "Esther", "Esters Bog", []string{"esth", "est"}},
	{18, "Job", "Jobs Bog", []string{"jb"}},
	{19, "Psalms", "Salmernes Bog", []string{"psalm", "ps", "sl"}},
	{20, "Proverbs", "Ordsprogenes Bog", []string{"prov", "pr", "ordsp"}},
	{21, "Ecclesiastes", "Prædikerens Bog", []string{"eccl", "ec", "præd"}},
	{22, "Song of Solomon", "Højsangen", []string{"song of sol", "sos", "højs"}},
	{23, "Isaiah", "Esajas' Bog", []string{"isa", "es"}},
	{24, "Jeremiah", "Jeremias' Bog", []string{"jer"}},
	{25, "Lamentations", "Klagesangene", []string{"lam", "klages"}},
	{26, "Ezekiel", "Ezekiels Bog", []string{"ezek", "eze"}},
	{27, "Daniel", "Daniels Bog", []string{"dan"}},
	{28, "Hosea", "Hoseas' Bog", []string{"hos"}},
	{29, "Joel", "Joels Bog", []string{"jl"}},
	{30, "Amos", "Amos' Bog", []string{"am"}},
	{31, "Obadiah", "Obadias' Bog", []string{"obad", "ob"}},
	{32, "Jonah", "Jonas' Bog", []string{"jon"}},
	{33, "Micah", "Mikas Bog", []string{"mic", "mik"}},
	{34, "Nahum", "Nahums Bog", []string{"nah", "na"}},
	{35, "Habakkuk", "Habakkuks Bog", []string{"hab"}},
	{36, "Zephaniah", "Sefanias' Bog", []string{"zeph", "zep", "sef"}},
	{37, "Haggai", "Haggajs Bog", []string{"hag", "hagg"}},
	{38, "Zechariah", "Zakarias' Bog", []string{"zech", "zec", "zak"}},
	{39, "Malachi", "Malakias' Bog", []string{"mal"}},
	{40, "Matthew", "Matthæusevangeliet", []string{"matt", "mt", "mattæus"}},
	{41, "Mark", "Markusevangeliet", []string{"mrk", "mk"}},
	{42, "Luke", "Lukasevangeliet", []string{"lk", "luk"}},
	{43, "John", "Johannesevangeliet", []string{"jhn", "joh"}},
	{44, "Acts", "Apostlenes Gerninger", []string{"act", "apg"}},
	{45, "Romans", "Romerbrevet", []string{"rom", "ro"}},
	{46, "1 Corinthians", "1 Korintherbrev", []string{"1co", "1 cor", "1 kor"}},
	{47, "2 Corinthians", "2 Korintherbrev", []string{"2co", "2 cor", "2 kor"}},
	{48, "Galatians", "Galaterbrevet", []string{"gal"}},
	{49, "Ephesians", "Efeserbrevet", []string{"eph", "ef", "efeserne"}},
	{50, "Philippians", "Filipperbrevet", []string{"php", "phil", "flp"}},
	{51, "Colossians", "Kolossenserbrevet", []string{"col", "kol"}},
	{52, "1 Thessalonians", "1 Thessalonikerbrev", []string{"1th", "1 thess"}},
	{53, "2 Thessalonians", "2 Thessalonikerbrev", []string{"2th", "2 thess"}},
	{54, "1 Timothy", "1 Timotheusbrev", []string{"1ti", "1 tim"}},
	{55, "2 Timothy", "2 Timotheusbrev", []string{"2ti", "2 tim"}},
	{56, "Titus", "Titusbrevet", []string{"tit"}},
	{57, "Philemon", "Filemonbrevet", []string{"phm", "philem", "filem"}},
	{58, "Hebrews", "Hebræerbrevet", []string{"heb", "hebr"}},
	{59, "James", "Jakobs Brev", []string{"jas", "jak"}},
	{60, "1 Peter", "1 Peters Brev", []string{"1pe", "1 pet"}},
	{61, "2 Peter", "2 Peters Brev", []string{"2pe", "2 pet"}},
	{62, "1 John", "1 Johannes' Brev", []string{"1jn", "1 joh"}},
	{63, "2 John", "2 Johannes' Brev", []string{"2jn", "2 joh"}},
	{64, "3 John", "3 Johannes' Brev", []string{"3jn", "3 joh"}},
	{65, "Jude", "Judas' Brev", []string{"jud"}},
	{66, "Revelation", "Åbenbaringen", []string{"rev", "re", "åb"}},
}

// ordinalByToken maps every lowercased canonical name (all languages) and
// every abbreviation to the owning book's ordinal.
var ordinalByToken = buildOrdinalIndex()

func buildOrdinalIndex() map[string]int {
	index := make(map[string]int, len(Books)*4)
	for _, b := range Books {
		index[strings.ToLower(b.English)] = b.Ordinal
		index[strings.ToLower(b.Danish)] = b.Ordinal
		for _, abbr := range b.Abbreviations {
			index[abbr] = b.Ordinal
		}
	}
	return index
}

// LookupExact resolves a book token to its ordinal, case-insensitively and
// ignoring surrounding whitespace. Names from every supported language and
// the shared abbreviation pool all match, regardless of which language the
// request was for.
func LookupExact(token string) (int, bool) {
	ordinal, ok := ordinalByToken[strings.ToLower(strings.TrimSpace(token))]
	return ordinal, ok
}

// ByOrdinal returns the book with the given ordinal (1..66).
func ByOrdinal(ordinal int) (Book, bool) {
	if ordinal < 1 || ordinal > len(Books) {
		return Book{}, false
	}
	return Books[ordinal-1], true
}
