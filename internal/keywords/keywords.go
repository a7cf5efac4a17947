// keywords хранит статические таблицы ключевых слов: правила категорий и метки алертов.
// Таблицы упорядочены: порядок правил — часть контракта классификатора.
package keywords

import "github.com/pribylovaa/news-analyzer/internal/models"

// Rule — метка и набор ключевых слов (EN + TR), все в нижнем регистре.
type Rule struct {
	Label    string
	Keywords []string
}

// Метки алертов.
const (
	AlertEarthquake = "Earthquake"
	AlertWar        = "War/Conflict"
	AlertBombing    = "Bombing"
	AlertKidnapping = "Kidnapping/Hostage"
	AlertEconomy    = "Economy"
)

// CategoryRules — правила категорий в порядке приоритета.
// Категория other правила не имеет: она выбирается, если ничего не совпало.
func CategoryRules() []Rule {
	return []Rule{
		{Label: string(models.CategoryConflict), Keywords: conflictKeywords},
		{Label: string(models.CategoryPolitics), Keywords: politicsKeywords},
		{Label: string(models.CategoryEconomy), Keywords: economyKeywords},
		{Label: string(models.CategoryTechnology), Keywords: technologyKeywords},
		{Label: string(models.CategorySociety), Keywords: societyKeywords},
	}
}

// AlertRules — таблица меток алертов, независимая от категорий.
func AlertRules() []Rule {
	return []Rule{
		{Label: AlertEarthquake, Keywords: []string{
			"earthquake", "aftershock", "tremor", "quake",
			"deprem",
		}},
		{Label: AlertWar, Keywords: []string{
			"war", "invasion", "offensive", "airstrike", "air strike",
			"missile", "rocket attack", "shelling",
			"savaş", "çatışma",
		}},
		{Label: AlertBombing, Keywords: []string{
			"bombing", "blast", "explosion", "suicide attack",
			"car bomb", "roadside bomb",
			"patlama", "bombalı saldırı", "intihar saldırısı",
		}},
		{Label: AlertKidnapping, Keywords: []string{
			"kidnapped", "abducted", "hostage", "abduction",
			"rehine", "kaçırıldı", "kaçırılan",
		}},
		{Label: AlertEconomy, Keywords: []string{
			"inflation", "recession", "interest rate", "interest rates",
			"stock market", "exchange rate", "currency crisis",
			"economy", "economic crisis",
			"enflasyon", "resesyon", "faiz", "faiz oranı",
			"kur krizi", "döviz krizi", "döviz kuru",
			"borsa", "dolar", "dollar", "euro",
		}},
	}
}

var conflictKeywords = []string{
	// EN
	"war", "invasion", "offensive", "airstrike", "air strike",
	"missile", "rocket attack", "shelling", "frontline",
	"military clash", "gunmen", "mass abduction", "kidnapped",
	"hostage", "terrorist", "suicide attack", "bombing",
	"explosion", "blast", "attack", "conflict", "clashes",
	"earthquake", "aftershock", "tremor", "quake",
	"flood", "wildfire", "hurricane",
	// TR
	"savaş", "çatışma", "baskın", "askeri operasyon",
	"roket", "füze", "bombalı saldırı", "bombalı",
	"patlama", "terör", "rehine", "kaçırıldı", "kaçırılan",
	"deprem", "artçı", "sel", "yangın", "fırtına",
}

var politicsKeywords = []string{
	// EN
	"election", "elections", "vote", "voting", "ballot",
	"government", "minister", "prime minister",
	"president", "parliament", "senate", "congress",
	"coalition", "opposition", "ruling party",
	"politician", "political",
	// TR
	"seçim", "oy", "sandık", "hükümet", "hükümeti",
	"bakan", "bakanlık", "başbakan", "cumhurbaşkanı",
	"meclis", "parlamento", "milletvekili",
	"koalisyon", "muhalefet", "iktidar", "siyasi", "siyaset",
}

var economyKeywords = []string{
	// EN
	"economy", "economic", "recession", "growth",
	"inflation", "interest rate", "interest rates",
	"stock market", "stocks", "shares", "bond",
	"currency", "exchange rate", "dollar", "euro",
	"unemployment", "wage", "salary", "budget", "debt",
	// TR
	"ekonomi", "ekonomik", "resesyon", "büyüme",
	"enflasyon", "faiz", "faiz oranı", "faiz oranları",
	"borsa", "hisse", "tahvil",
	"kur", "döviz", "dolar", "euro",
	"işsizlik", "maaş", "ücret", "bütçe", "borç",
	"zam", "indirim", "piyasa", "fiyat artışı",
}

var technologyKeywords = []string{
	// EN
	"ai", "artificial intelligence", "machine learning",
	"app", "application", "software", "hardware",
	"social media", "platform", "startup", "tech company",
	"cyber", "hacker", "data breach", "privacy",
	"smartphone", "device", "robot",
	// TR
	"yapay zeka", "makine öğrenmesi",
	"uygulama", "yazılım", "donanım",
	"sosyal medya", "platform", "teknoloji", "teknolojik",
	"siber", "siber saldırı", "veri ihlali", "gizlilik",
	"telefon", "akıllı telefon", "cihaz", "robot",
}

var societyKeywords = []string{
	// EN
	"school", "university", "student", "students",
	"teacher", "family", "families", "children", "kids",
	"gender", "violence", "domestic violence",
	"rights", "human rights", "protest", "demonstration",
	"police", "crime", "murder", "shooting",
	// TR
	"okul", "üniversite", "öğrenci", "öğretmen",
	"aile", "çocuk", "kadın", "erkek",
	"şiddet", "aile içi şiddet",
	"hak", "insan hakları", "protesto", "gösteri",
	"polis", "suç", "cinayet", "saldırı",
}
