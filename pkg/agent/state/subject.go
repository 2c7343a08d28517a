package state

import "strings"

// Subject is one of the fixed school subjects the pipeline routes into.
// The set is closed: adding a subject means adding a constant here, a
// specialist variant, and nothing else.
type Subject string

const (
	SubjectMathematiques  Subject = "mathematiques"
	SubjectFrancais       Subject = "francais"
	SubjectPhysiqueChimie Subject = "physique_chimie"
	SubjectSVT            Subject = "svt"
	SubjectHistoireGeo    Subject = "histoire_geo"
	SubjectAnglais        Subject = "anglais"
	SubjectPhilosophie    Subject = "philosophie"
)

// DefaultSubject is the routing fallback when nothing was detected.
const DefaultSubject = SubjectMathematiques

// AllSubjects lists the closed subject set in routing order.
var AllSubjects = []Subject{
	SubjectMathematiques,
	SubjectFrancais,
	SubjectPhysiqueChimie,
	SubjectSVT,
	SubjectHistoireGeo,
	SubjectAnglais,
	SubjectPhilosophie,
}

// subjectSynonyms maps free-form intake labels (lowercased) to subjects.
var subjectSynonyms = map[string]Subject{
	"mathématiques":                  SubjectMathematiques,
	"mathematiques":                  SubjectMathematiques,
	"maths":                          SubjectMathematiques,
	"math":                           SubjectMathematiques,
	"français":                       SubjectFrancais,
	"francais":                       SubjectFrancais,
	"littérature":                    SubjectFrancais,
	"physique-chimie":                SubjectPhysiqueChimie,
	"physique chimie":                SubjectPhysiqueChimie,
	"physique_chimie":                SubjectPhysiqueChimie,
	"physique":                       SubjectPhysiqueChimie,
	"chimie":                         SubjectPhysiqueChimie,
	"svt":                            SubjectSVT,
	"sciences de la vie et de la terre": SubjectSVT,
	"biologie":                       SubjectSVT,
	"histoire-géographie":            SubjectHistoireGeo,
	"histoire géographie":            SubjectHistoireGeo,
	"histoire_geo":                   SubjectHistoireGeo,
	"histoire":                       SubjectHistoireGeo,
	"géographie":                     SubjectHistoireGeo,
	"géo":                            SubjectHistoireGeo,
	"anglais":                        SubjectAnglais,
	"english":                        SubjectAnglais,
	"lv1":                            SubjectAnglais,
	"philosophie":                    SubjectPhilosophie,
	"philo":                          SubjectPhilosophie,
}

// NormalizeSubject maps a free-form label to a Subject. Unknown or empty
// labels resolve to DefaultSubject — routing never fails.
func NormalizeSubject(raw string) Subject {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if subject, ok := subjectSynonyms[normalized]; ok {
		return subject
	}
	return DefaultSubject
}

// Label returns a human-readable form of the subject ("physique chimie").
func (s Subject) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Level is one of the fixed ordered school levels (6ème through Terminale).
type Level string

const (
	LevelSixieme   Level = "6ème"
	LevelCinquieme Level = "5ème"
	LevelQuatrieme Level = "4ème"
	LevelTroisieme Level = "3ème"
	LevelSeconde   Level = "2nde"
	LevelPremiere  Level = "1ère"
	LevelTerminale Level = "Terminale"
)

// DefaultLevel is the median collège level used when detection fails.
const DefaultLevel = LevelTroisieme

// LevelGroup buckets levels into pedagogy tiers.
var LevelGroup = map[Level]string{
	LevelSixieme:   "college_debut",
	LevelCinquieme: "college_debut",
	LevelQuatrieme: "college_fin",
	LevelTroisieme: "college_fin",
	LevelSeconde:   "lycee_debut",
	LevelPremiere:  "lycee_milieu",
	LevelTerminale: "terminale",
}

// KnownLevel reports whether a raw label is one of the ordered level set.
func KnownLevel(raw string) bool {
	_, ok := LevelGroup[Level(raw)]
	return ok
}
