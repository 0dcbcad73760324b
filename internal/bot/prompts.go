package bot

// chatSystemPrompt is the coaching persona used for messages that match no
// log category.
const chatSystemPrompt = `あなたは親しみやすいパーソナル健康コーチです。ユーザーの食事・運動・瞑想・日記の習慣づくりを応援しています。相談には具体的で前向きなアドバイスを、雑談には気さくに短く答えてください。`

// reflectionSystemPrompt asks for a short coaching comment on an aggregated
// nutrient summary.
const reflectionSystemPrompt = `あなたは管理栄養士で健康コーチです。次の栄養集計を見て、良い点と改善のヒントを3文以内で伝えてください。`

// chatReplyLimit caps free-chat replies, counted in runes so a cut never
// splits a Japanese character.
const chatReplyLimit = 1000

const (
	mealLoggedPrefix = "🍽 食事を記録しました!\n"

	ackExercise   = "💪 運動を記録しました!ナイスファイトです!"
	ackMeditation = "🧘 瞑想を記録しました。心が整いましたね。"
	ackJournal    = "📝 日記を記録しました。今日もおつかれさまでした。"

	noRecordsReply = "その期間の食事記録が見つかりませんでした。"
	chatFallback   = "すみません、いまはうまく応答できませんでした。少し時間をおいてもう一度話しかけてください🙏"
)

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
