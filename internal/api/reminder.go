package api

const (
	morningReminder = "おはようございます☀️ 朝食を食べたら内容を送ってくださいね。今日も一日いいスタートを!"
	nightReminder   = "こんばんは🌙 今日の食事・運動・瞑想の記録は済んでいますか?寝る前にまとめて送ってもOKです。"
	defaultReminder = "記録の時間です📋 今日の調子はどうですか?食事や運動をひとこと送ってください。"
)

// reminderText picks the template for the requested reminder type; anything
// but morning/night falls back to the default template.
func reminderText(kind string) string {
	switch kind {
	case "morning":
		return morningReminder
	case "night":
		return nightReminder
	default:
		return defaultReminder
	}
}
