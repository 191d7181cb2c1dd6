package srt

import (
	"errors"
	"reflect"
	"testing"
)

func ts(pairs ...[2]int64) []Timestamp {
	out := make([]Timestamp, len(pairs))
	for i, p := range pairs {
		out[i] = Timestamp{StartMS: p[0], EndMS: p[1]}
	}
	return out
}

func TestSegmentHardBreaksAlwaysTerminate(t *testing.T) {
	stamps := ts([2]int64{0, 100}, [2]int64{100, 200}, [2]int64{200, 300}, [2]int64{300, 400})

	for _, minLen := range []int{1, 10, 100} {
		cues, err := Segment("你好。世界！", stamps, minLen)
		if err != nil {
			t.Fatalf("Segment: %v", err)
		}
		if len(cues) != 2 {
			t.Fatalf("min len %d: expected 2 cues, got %d: %+v", minLen, len(cues), cues)
		}
		if cues[0].Text != "你好。" || cues[1].Text != "世界！" {
			t.Fatalf("unexpected cue text: %q / %q", cues[0].Text, cues[1].Text)
		}
		if cues[0].StartMS != 0 || cues[0].EndMS != 200 {
			t.Fatalf("first cue bounds: %d..%d", cues[0].StartMS, cues[0].EndMS)
		}
		if cues[1].StartMS != 200 || cues[1].EndMS != 400 {
			t.Fatalf("second cue bounds: %d..%d", cues[1].StartMS, cues[1].EndMS)
		}
	}
}

func TestSegmentSoftBreakMergesShortFragments(t *testing.T) {
	text := "短,句子,很长的内容"
	stamps := make([]Timestamp, 0, 8)
	for i := int64(0); i < 8; i++ {
		stamps = append(stamps, Timestamp{StartMS: i * 100, EndMS: (i + 1) * 100})
	}

	cues, err := Segment(text, stamps, 10)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	// Neither comma reaches 10 buffered runes, so everything merges into one cue.
	if len(cues) != 1 {
		t.Fatalf("expected 1 merged cue, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != text {
		t.Fatalf("expected full text retained, got %q", cues[0].Text)
	}
	if cues[0].StartMS != 0 || cues[0].EndMS != 800 {
		t.Fatalf("cue bounds: %d..%d", cues[0].StartMS, cues[0].EndMS)
	}
}

func TestSegmentSoftBreakFiresAtThreshold(t *testing.T) {
	// Ten content runes then a comma: buffered length 11 >= 4, so the comma
	// splits; the short head before the first comma (length 2) is absorbed.
	text := "一二,三四五六七八,九十"
	stamps := make([]Timestamp, 0, 10)
	for i := int64(0); i < 10; i++ {
		stamps = append(stamps, Timestamp{StartMS: i * 10, EndMS: (i + 1) * 10})
	}

	cues, err := Segment(text, stamps, 4)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "一二,三四五六七八," {
		t.Fatalf("first cue: %q", cues[0].Text)
	}
	if cues[1].Text != "九十" {
		t.Fatalf("second cue: %q", cues[1].Text)
	}
}

func TestSegmentTrailingTextFlushes(t *testing.T) {
	text := "没有结尾的文字"
	stamps := make([]Timestamp, 0, 7)
	for i := int64(0); i < 7; i++ {
		stamps = append(stamps, Timestamp{StartMS: i * 50, EndMS: (i + 1) * 50})
	}

	cues, err := Segment(text, stamps, 15)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != text {
		t.Fatalf("cue text: %q", cues[0].Text)
	}
	if cues[0].StartMS != 0 || cues[0].EndMS != 350 {
		t.Fatalf("cue bounds: %d..%d", cues[0].StartMS, cues[0].EndMS)
	}
}

func TestSegmentEmptyText(t *testing.T) {
	cues, err := Segment("", nil, 15)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 0 {
		t.Fatalf("expected no cues, got %+v", cues)
	}
}

func TestSegmentPunctuationOnlyEmitsNothing(t *testing.T) {
	cues, err := Segment("。，！ 、？", nil, 2)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 0 {
		t.Fatalf("expected no cues for punctuation-only input, got %+v", cues)
	}
}

func TestSegmentShortTimestampList(t *testing.T) {
	// Four content runes, two timestamps: trailing runes inherit the last
	// known end time instead of advancing the cursor.
	cues, err := Segment("你好世界。", ts([2]int64{0, 100}, [2]int64{100, 200}), 15)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].StartMS != 0 || cues[0].EndMS != 200 {
		t.Fatalf("cue bounds: %d..%d", cues[0].StartMS, cues[0].EndMS)
	}
}

func TestSegmentNoTimestampsAtAll(t *testing.T) {
	// Graceful degradation: text survives with zeroed timing rather than
	// being dropped.
	cues, err := Segment("没有时间戳。", nil, 15)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].StartMS != 0 || cues[0].EndMS != 0 {
		t.Fatalf("cue bounds: %d..%d", cues[0].StartMS, cues[0].EndMS)
	}
}

func TestSegmentSoftThenHardBreak(t *testing.T) {
	// The hard break forces a flush even though the comma just before it
	// was absorbed.
	cues, err := Segment("短,。后续", ts([2]int64{0, 10}, [2]int64{10, 20}, [2]int64{20, 30}), 20)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "短,。" {
		t.Fatalf("first cue: %q", cues[0].Text)
	}
	if cues[1].Text != "后续" {
		t.Fatalf("second cue: %q", cues[1].Text)
	}
}

func TestSegmentIndicesAreGapless(t *testing.T) {
	text := "第一句。第二句！第三句？还在继续，这里很长所以会断开，结尾"
	stamps := make([]Timestamp, 0, 64)
	for i := int64(0); i < 64; i++ {
		stamps = append(stamps, Timestamp{StartMS: i * 100, EndMS: (i + 1) * 100})
	}

	cues, err := Segment(text, stamps, 8)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) == 0 {
		t.Fatal("expected cues")
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("cue %d has index %d", i, cue.Index)
		}
		if cue.StartMS > cue.EndMS {
			t.Fatalf("cue %d: start %d > end %d", cue.Index, cue.StartMS, cue.EndMS)
		}
	}
}

func TestSegmentIsDeterministic(t *testing.T) {
	text := "重复调用，应当得到，完全一致的结果。真的吗？真的。"
	stamps := make([]Timestamp, 0, 32)
	for i := int64(0); i < 32; i++ {
		stamps = append(stamps, Timestamp{StartMS: i * 30, EndMS: (i + 1) * 30})
	}

	first, err := Segment(text, stamps, 10)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	second, err := Segment(text, stamps, 10)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("segmentation is not deterministic:\n%+v\n%+v", first, second)
	}
	if Render(first) != Render(second) {
		t.Fatal("rendered output differs between identical calls")
	}
}

func TestSegmentRejectsInvalidMergeLength(t *testing.T) {
	for _, minLen := range []int{0, -1, -100} {
		_, err := Segment("文字。", ts([2]int64{0, 100}, [2]int64{100, 200}), minLen)
		if !errors.Is(err, ErrMinMergeLength) {
			t.Fatalf("min len %d: expected ErrMinMergeLength, got %v", minLen, err)
		}
	}
}

func TestSegmentWhitespaceIsSoftBreak(t *testing.T) {
	// English-style input: spaces split once the threshold is reached and
	// are trimmed from cue boundaries.
	cues, err := Segment("ab cd", ts([2]int64{0, 10}, [2]int64{10, 20}, [2]int64{20, 30}, [2]int64{30, 40}), 3)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "ab" || cues[1].Text != "cd" {
		t.Fatalf("cue text: %q / %q", cues[0].Text, cues[1].Text)
	}
}
