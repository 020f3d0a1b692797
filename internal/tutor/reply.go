package tutor

import "strings"

// Field labels the judge is instructed to reply with, one per line.
const (
	labelVerdict      = "DEĞERLENDIRME"
	labelExplanation  = "AÇIKLAMA"
	labelContinuation = "DEVAM"

	// correctMarker is the token whose presence in the verdict field
	// value means the answer passed.
	correctMarker = "DOĞRU"
)

// judgeReply is the parsed form of the judge's labeled reply.
type judgeReply struct {
	verdict      string
	explanation  string
	continuation string
	hasVerdict   bool
	hasExplain   bool
}

// parseJudgeReply scans a reply for "LABEL: value" lines. The grammar is
// deliberately forgiving: unknown lines are appended to the most recent
// field so multi-line explanations survive, and missing fields fall back
// to defaults. Parse failure is data, not an error — a reply with no
// verdict field grades as incorrect, and a reply with no explanation
// field uses the whole reply text as the explanation.
func parseJudgeReply(raw string) Verdict {
	reply := scanFields(raw)

	v := Verdict{
		Correct:      reply.hasVerdict && strings.Contains(strings.ToUpper(reply.verdict), correctMarker),
		Explanation:  strings.TrimSpace(reply.explanation),
		Continuation: strings.TrimSpace(reply.continuation),
	}
	if !reply.hasExplain || v.Explanation == "" {
		v.Explanation = strings.TrimSpace(raw)
	}
	return v
}

func scanFields(raw string) judgeReply {
	var reply judgeReply
	appendTo := func(string) {}

	for _, line := range strings.Split(raw, "\n") {
		label, value, ok := splitLabeledLine(line)
		if !ok {
			// Continuation of the previous field, if any.
			appendTo(line)
			continue
		}
		switch label {
		case labelVerdict:
			reply.verdict = value
			reply.hasVerdict = true
			appendTo = func(s string) { reply.verdict += "\n" + s }
		case labelExplanation:
			reply.explanation = value
			reply.hasExplain = true
			appendTo = func(s string) { reply.explanation += "\n" + s }
		case labelContinuation:
			reply.continuation = value
			appendTo = func(s string) { reply.continuation += "\n" + s }
		default:
			appendTo(line)
		}
	}
	return reply
}

// splitLabeledLine splits "LABEL: value" and canonicalizes the label.
// Turkish dotted İ is folded to I so that lowercase model output
// ("değerlendirme:") still matches.
func splitLabeledLine(line string) (label, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	label = strings.TrimSpace(line[:idx])
	label = strings.ReplaceAll(strings.ToUpper(label), "İ", "I")
	switch label {
	case labelVerdict, labelExplanation, labelContinuation:
		return label, strings.TrimSpace(line[idx+1:]), true
	}
	return "", "", false
}
