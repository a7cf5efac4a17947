package classify

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonreiter/govader"
)

// Бэкенды оценки тональности.
const (
	BackendLexicon  = "lexicon"
	BackendAdvanced = "advanced"
)

// Scorer оценивает полярность текста.
//
// Контракт:
//   - результат всегда в [-1, 1];
//   - пустой (или только пробельный) текст -> ровно 0.0;
//   - детерминированность: одинаковый текст -> одинаковая оценка.
type Scorer interface {
	Score(text string) float64
}

// NewScorer возвращает Scorer по имени бэкенда из конфигурации.
func NewScorer(backend string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendLexicon:
		return LexiconScorer{}, nil
	case BackendAdvanced:
		return NewAdvancedScorer(), nil
	default:
		return nil, fmt.Errorf("classify: unknown sentiment backend %q", backend)
	}
}

// LexiconScorer — средняя полярность слов текста, найденных в словаре.
type LexiconScorer struct{}

// Score реализует Scorer.
func (LexiconScorer) Score(text string) float64 {
	var sum float64
	var n int

	for _, tok := range tokenize(text) {
		if p, ok := lexicon[tok]; ok {
			sum += p
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return clamp(sum / float64(n))
}

// AdvancedScorer — VADER (compound) для английского текста.
//
// Если VADER не нашёл в тексте ни одного слова своего словаря (compound == 0),
// оценка берётся из собственного EN/TR словаря с правилами: отрицание
// (not/no/never/…) перед словом и турецкое «değil» после слова переворачивают
// знак с коэффициентом 0.5, усилитель перед словом умножает полярность на его вес.
type AdvancedScorer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAdvancedScorer загружает словарь VADER; анализатор только читает его,
// поэтому Scorer безопасен для конкурентного использования.
func NewAdvancedScorer() *AdvancedScorer {
	return &AdvancedScorer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score реализует Scorer.
func (s *AdvancedScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	if v := s.vader.PolarityScores(text).Compound; v != 0 {
		return clamp(v)
	}

	return ruleScore(tokenize(text))
}

// ruleScore — словарная оценка с отрицаниями и усилителями.
func ruleScore(toks []string) float64 {
	var sum float64
	var n int

	for i, tok := range toks {
		p, ok := lexicon[tok]
		if !ok {
			continue
		}

		if i > 0 {
			if w, ok := intensifiers[toks[i-1]]; ok {
				p = clamp(p * w)
			}
		}

		if negatedBefore(toks, i) || (i+1 < len(toks) && toks[i+1] == "değil") {
			p *= -0.5
		}

		sum += p
		n++
	}

	if n == 0 {
		return 0
	}

	return clamp(sum / float64(n))
}

// negatedBefore смотрит на два токена перед словом.
func negatedBefore(toks []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if _, ok := negations[toks[j]]; ok {
			return true
		}
	}

	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nobody": {}, "nothing": {},
	"don't": {}, "doesn't": {}, "didn't": {}, "isn't": {}, "wasn't": {}, "aren't": {},
	"won't": {}, "cannot": {}, "without": {},
	"hiç": {}, "asla": {},
}

var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "highly": 1.3, "really": 1.2, "so": 1.2,
	"incredibly": 1.5, "deeply": 1.3, "slightly": 0.6, "somewhat": 0.7,
	"çok": 1.3, "aşırı": 1.5, "oldukça": 1.2, "biraz": 0.6,
}

// lexicon — полярность слов (EN + TR) в [-1, 1].
var lexicon = map[string]float64{
	// EN positive
	"good": 0.7, "great": 0.8, "excellent": 1.0, "best": 1.0, "better": 0.5,
	"happy": 0.8, "positive": 0.23, "success": 0.5, "successful": 0.75,
	"win": 0.8, "wins": 0.8, "won": 0.6, "victory": 0.6, "peace": 0.5,
	"peaceful": 0.5, "hope": 0.4, "hopeful": 0.5, "safe": 0.5, "rescued": 0.5,
	"growth": 0.3, "recovery": 0.4, "record": 0.2, "strong": 0.43, "stable": 0.3,
	"agreement": 0.3, "deal": 0.2, "celebrate": 0.6, "celebrates": 0.6,
	"love": 0.5, "beautiful": 0.85, "wonderful": 1.0, "amazing": 0.6,
	"improve": 0.4, "improved": 0.4, "boost": 0.4, "rise": 0.1, "rises": 0.1,
	"free": 0.4, "freed": 0.4, "help": 0.3, "support": 0.3, "award": 0.5,
	// EN negative
	"bad": -0.7, "worse": -0.4, "worst": -1.0, "terrible": -1.0, "awful": -1.0,
	"sad": -0.5, "negative": -0.3, "fail": -0.5, "failed": -0.5, "failure": -0.5,
	"crisis": -0.6, "dead": -0.8, "death": -0.8, "deaths": -0.8, "died": -0.7,
	"dies": -0.7, "kill": -0.8, "killed": -0.8, "killing": -0.8, "kills": -0.8,
	"injured": -0.6, "wounded": -0.6, "violent": -0.8, "violence": -0.8,
	"war": -0.6, "attack": -0.6, "attacks": -0.6, "bombing": -0.7, "blast": -0.5,
	"explosion": -0.5, "disaster": -0.8, "tragedy": -0.8, "tragic": -0.75,
	"fear": -0.5, "fears": -0.5, "threat": -0.5, "threatens": -0.5,
	"collapse": -0.6, "collapsed": -0.6, "drop": -0.2, "drops": -0.2,
	"fall": -0.2, "falls": -0.2, "plunge": -0.5, "plunges": -0.5,
	"loss": -0.4, "losses": -0.4, "poor": -0.4, "angry": -0.5, "anger": -0.5,
	"protest": -0.2, "arrested": -0.4, "destroyed": -0.7, "devastating": -0.9,
	"hostage": -0.6, "kidnapped": -0.7, "earthquake": -0.5, "flood": -0.5,
	"massive": -0.1, "warning": -0.3, "concern": -0.3, "concerns": -0.3,
	"recession": -0.6, "inflation": -0.3, "unemployment": -0.4, "shooting": -0.7,
	// TR positive
	"iyi": 0.6, "güzel": 0.7, "harika": 0.9, "mükemmel": 1.0, "başarı": 0.6,
	"başarılı": 0.7, "barış": 0.5, "umut": 0.4, "zafer": 0.6, "kazandı": 0.6,
	"destek": 0.3, "büyüme": 0.3, "artış": 0.1, "güvenli": 0.5, "kurtarıldı": 0.5,
	"anlaşma": 0.3, "sevindirici": 0.7, "olumlu": 0.5,
	// TR negative
	"kötü": -0.7, "ölü": -0.8, "öldü": -0.8, "ölüm": -0.8, "hayatını": -0.3,
	"yaralı": -0.6, "yaralandı": -0.6, "kriz": -0.6, "saldırı": -0.7,
	"felaket": -0.9, "endişe": -0.5, "korku": -0.5, "savaş": -0.6,
	"deprem": -0.5, "patlama": -0.5, "yangın": -0.5, "sel": -0.4,
	"düştü": -0.3, "çöktü": -0.6, "kayıp": -0.5, "tehdit": -0.5,
	"olumsuz": -0.5, "gözaltı": -0.4, "tutuklandı": -0.4, "terör": -0.8,
	"enflasyon": -0.3, "işsizlik": -0.4, "rehine": -0.6,
}
