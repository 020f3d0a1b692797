package tutor

import "testing"

func TestParseJudgeReply_WellFormed(t *testing.T) {
	raw := "DEĞERLENDİRME: DOĞRU\nAÇIKLAMA: Güneş enerjisini nükleer füzyonla üretir.\nDEVAM: Şimdi sıradaki soruya geçelim."

	v := parseJudgeReply(raw)
	if !v.Correct {
		t.Fatal("expected correct verdict")
	}
	if v.Explanation != "Güneş enerjisini nükleer füzyonla üretir." {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}
	if v.Continuation != "Şimdi sıradaki soruya geçelim." {
		t.Fatalf("unexpected continuation: %q", v.Continuation)
	}
}

func TestParseJudgeReply_Incorrect(t *testing.T) {
	raw := "DEĞERLENDİRME: YANLIŞ\nAÇIKLAMA: Doğru cevap nükleer füzyon olacaktı.\nDEVAM: Devam edelim."

	v := parseJudgeReply(raw)
	if v.Correct {
		t.Fatal("expected incorrect verdict")
	}
	if v.Explanation != "Doğru cevap nükleer füzyon olacaktı." {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}
}

func TestParseJudgeReply_LowercaseLabels(t *testing.T) {
	raw := "değerlendirme: doğru\naçıklama: Evet, bu doğru.\ndevam: Hadi devam edelim."

	v := parseJudgeReply(raw)
	if !v.Correct {
		t.Fatal("expected correct verdict with lowercase labels")
	}
	if v.Explanation != "Evet, bu doğru." {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}
}

func TestParseJudgeReply_MultiLineExplanation(t *testing.T) {
	raw := "DEĞERLENDİRME: DOĞRU\nAÇIKLAMA: İlk satır.\nİkinci satır.\nDEVAM: Geçelim."

	v := parseJudgeReply(raw)
	if v.Explanation != "İlk satır.\nİkinci satır." {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}
	if v.Continuation != "Geçelim." {
		t.Fatalf("unexpected continuation: %q", v.Continuation)
	}
}

func TestParseJudgeReply_MissingVerdictGradesIncorrect(t *testing.T) {
	raw := "AÇIKLAMA: Bir şeyler ters gitti."

	v := parseJudgeReply(raw)
	if v.Correct {
		t.Fatal("reply without a verdict must grade incorrect")
	}
	if v.Explanation != "Bir şeyler ters gitti." {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}
}

func TestParseJudgeReply_GarbageFallsBackToRaw(t *testing.T) {
	raw := "Cevabın hakkında emin değilim ama fena sayılmaz."

	v := parseJudgeReply(raw)
	if v.Correct {
		t.Fatal("unlabeled reply must grade incorrect")
	}
	if v.Explanation != raw {
		t.Fatalf("expected whole reply as explanation, got %q", v.Explanation)
	}
	if v.Continuation != "" {
		t.Fatalf("expected empty continuation, got %q", v.Continuation)
	}
}

func TestParseJudgeReply_VerdictInsideSentence(t *testing.T) {
	raw := "DEĞERLENDİRME: Bu cevap DOĞRU kabul edilir\nAÇIKLAMA: Anlamca örtüşüyor."

	v := parseJudgeReply(raw)
	if !v.Correct {
		t.Fatal("verdict containing DOĞRU anywhere must grade correct")
	}
}

func TestParseJudgeReply_EmptyExplanationFallsBackToRaw(t *testing.T) {
	raw := "DEĞERLENDİRME: YANLIŞ\nAÇIKLAMA:"

	v := parseJudgeReply(raw)
	if v.Explanation == "" {
		t.Fatal("explanation must never be empty")
	}
}
