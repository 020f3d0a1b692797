package tutor

import "fmt"

// User-facing strings. The service speaks Turkish end to end.
const (
	msgConfirmReady = "Hazır olduğunda 'evet' yazabilirsin."

	msgSkipPrefix = "Anlamadığın noktaları açıklayayım:"

	msgCorrect = "Harika, doğru cevap! 👏"

	msgContinueCorrect   = "Şimdi devam edelim:"
	msgContinueIncorrect = "Devam edelim:"
	msgReviewStep        = "Bu adımı bir kez daha pekiştirelim:"
	msgRetry             = "Tekrar dener misin?"

	msgDegraded = "Cevabını tam olarak değerlendiremedim. Devam edelim:"

	msgCourseCompleted  = "Tebrikler! Tüm kursu başarıyla tamamladın! 🎉"
	msgAlreadyCompleted = "Bu kursu zaten tamamladın. Tebrikler! 🎉"
)

// WelcomeMessage greets the learner when a course starts.
func WelcomeMessage(courseTitle string) string {
	return fmt.Sprintf("Merhaba! %s dersine hoş geldin! Başlamaya hazır mısın?", courseTitle)
}

// sectionTransition announces the move into a new section.
func sectionTransition(sectionTitle string) string {
	return fmt.Sprintf("Harika! Bu bölümü tamamladın. Şimdi %s bölümüne geçiyoruz.", sectionTitle)
}

// incorrectExplanation names one expected response when the deterministic
// grader rejects an answer and no judge explanation is available.
func incorrectExplanation(expected string) string {
	return fmt.Sprintf("Tam olarak değil. Beklediğim cevaplardan biri şuydu: %q.", expected)
}
