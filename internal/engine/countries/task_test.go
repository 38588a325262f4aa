package countries

import (
	"strings"
	"testing"
	"time"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/model"
)

func sample(src, dst, srcIP, dstIP string, length int) *model.CountrySample {
	return &model.CountrySample{
		Timestamp:  time.Now(),
		SrcCountry: src,
		DstCountry: dst,
		SrcIP:      srcIP,
		DstIP:      dstIP,
		Length:     length,
	}
}

func snapshotOf(t *testing.T, task model.Task) map[string]CountrySnapshot {
	t.Helper()
	data, ok := task.Snapshot().(SnapshotData)
	if !ok {
		t.Fatalf("unexpected snapshot type %T", task.Snapshot())
	}
	byCode := make(map[string]CountrySnapshot, len(data.Countries))
	for _, c := range data.Countries {
		byCode[c.CountryCode] = c
	}
	return byCode
}

func TestProcessSampleAccumulatesBothDirections(t *testing.T) {
	task := New("top_countries", 4)

	// DE talks to US twice over the same flow, US answers once.
	task.ProcessSample(sample("DE", "US", "10.0.0.1", "20.0.0.1", 100))
	task.ProcessSample(sample("DE", "US", "10.0.0.1", "20.0.0.1", 50))
	task.ProcessSample(sample("US", "DE", "20.0.0.1", "10.0.0.1", 30))

	byCode := snapshotOf(t, task)

	de := byCode["DE"]
	if de.BytesOut != 150 || de.BytesIn != 30 {
		t.Errorf("DE bytes: out=%d in=%d", de.BytesOut, de.BytesIn)
	}
	if de.FlowsSource != 1 || de.FlowsDestination != 1 {
		t.Errorf("DE flows: src=%d dst=%d", de.FlowsSource, de.FlowsDestination)
	}
	if de.UniqueSourceIPs != 1 {
		t.Errorf("DE unique source IPs: %d", de.UniqueSourceIPs)
	}

	us := byCode["US"]
	if us.BytesIn != 150 || us.BytesOut != 30 {
		t.Errorf("US bytes: in=%d out=%d", us.BytesIn, us.BytesOut)
	}
}

func TestProcessSampleSkipsUnresolvedCountries(t *testing.T) {
	task := New("top_countries", 4)

	task.ProcessSample(sample("", "US", "10.0.0.1", "20.0.0.1", 100))

	byCode := snapshotOf(t, task)
	if _, ok := byCode[""]; ok {
		t.Error("unresolved source must not create a record")
	}
	if byCode["US"].BytesIn != 100 {
		t.Errorf("US bytes in: %d", byCode["US"].BytesIn)
	}
}

func TestSnapshotIsSortedAndReset(t *testing.T) {
	task := New("top_countries", 4)
	task.ProcessSample(sample("US", "DE", "1.1.1.1", "2.2.2.2", 10))
	task.ProcessSample(sample("AR", "BR", "3.3.3.3", "4.4.4.4", 10))

	data := task.Snapshot().(SnapshotData)
	if len(data.Countries) != 4 {
		t.Fatalf("expected 4 countries, got %d", len(data.Countries))
	}
	for i := 1; i < len(data.Countries); i++ {
		if data.Countries[i-1].CountryCode > data.Countries[i].CountryCode {
			t.Fatalf("snapshot not sorted: %v", data.Countries)
		}
	}

	task.Reset()
	if after := task.Snapshot().(SnapshotData); len(after.Countries) != 0 {
		t.Errorf("reset left %d countries behind", len(after.Countries))
	}
}

func TestAlerterMsgCountryScopedRule(t *testing.T) {
	task := New("top_countries", 4)
	task.ProcessSample(sample("DE", "US", "10.0.0.1", "20.0.0.1", 5000))

	rules := []config.AlerterRule{
		{Name: "DE egress", TaskName: "top_countries", Country: "DE", Metric: "bytes_out", Operator: ">", Threshold: 1000},
		{Name: "other task", TaskName: "something_else", Metric: "bytes_out", Operator: ">", Threshold: 0},
	}

	msg := task.AlerterMsg(rules)
	if msg == "" {
		t.Fatal("expected the DE egress rule to trigger")
	}
	if !strings.Contains(msg, "DE egress") {
		t.Errorf("message does not name the rule: %s", msg)
	}
	if strings.Contains(msg, "other task") {
		t.Errorf("rule for another task leaked into the message: %s", msg)
	}
}
