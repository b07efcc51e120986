package services

import "github.com/yurift/drift/internal/domain/entities"

// vibeKeywords maps each vibe to the facility keywords that express it.
// Facility keyword tags are stored in Japanese by the importer.
var vibeKeywords = map[entities.Vibe][]string{
	entities.VibeForest:   {"森", "森林", "自然", "緑", "山"},
	entities.VibeCity:     {"都会", "駅近", "都市", "夜景"},
	entities.VibeSnow:     {"雪", "雪見風呂", "冬"},
	entities.VibeBonfire:  {"焚き火", "囲炉裏", "サウナ"},
	entities.VibeHinoki:   {"檜", "檜風呂", "木造"},
	entities.VibeConcrete: {"コンクリート", "モダン", "デザイナーズ"},
	entities.VibeOcean:    {"海", "海辺", "オーシャンビュー"},
	entities.VibeCave:     {"洞窟", "洞窟風呂", "岩風呂"},
	entities.VibeMorning:  {"朝", "朝風呂", "早朝営業"},
	entities.VibeSunset:   {"夕日", "夕焼け", "絶景"},
	entities.VibeSolo:     {"一人", "静か", "個室"},
	entities.VibeParty:    {"グループ", "貸切", "宴会"},
}

// sensationKeywords maps each sensation to spring-quality keywords.
// おまかせ expresses no preference and contributes nothing.
var sensationKeywords = map[entities.Sensation][]string{
	entities.SensationToroToro:   {"トロトロ", "美肌の湯", "アルカリ性"},
	entities.SensationBiriBiri:   {"ビリビリ", "電気風呂", "強酸性"},
	entities.SensationShakit:     {"シャキッ", "冷水風呂", "水風呂"},
	entities.SensationPunPun:     {"プンプン", "硫黄泉", "硫黄"},
	entities.SensationShuwaShuwa: {"シュワシュワ", "炭酸泉"},
	entities.SensationDoroDoro:   {"ドロドロ", "泥湯", "泥"},
	entities.SensationSuuSuu:     {"スースー", "薬湯", "ハーブ"},
	entities.SensationOmakase:    {},
}

// KeywordsForVibes returns the de-duplicated keyword union for vibes,
// in tag order.
func KeywordsForVibes(vibes []entities.Vibe) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range vibes {
		out = appendUnique(out, seen, vibeKeywords[v])
	}
	return out
}

// KeywordsForSensations returns the de-duplicated keyword union for
// sensations, in tag order.
func KeywordsForSensations(sensations []entities.Sensation) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, s := range sensations {
		out = appendUnique(out, seen, sensationKeywords[s])
	}
	return out
}

func appendUnique(dst []string, seen map[string]struct{}, src []string) []string {
	for _, k := range src {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		dst = append(dst, k)
	}
	return dst
}
