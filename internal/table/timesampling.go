package table

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// AcyclicTimePerCycle marks a time sampling whose stored times are explicit
// per sample.
const AcyclicTimePerCycle = math.MaxFloat64 / 32.0

// SamplingType classifies a TimeSampling.
type SamplingType uint8

const (
	Uniform SamplingType = iota
	Cyclic
	Acyclic
)

func (t SamplingType) String() string {
	switch t {
	case Uniform:
		return "uniform"
	case Cyclic:
		return "cyclic"
	case Acyclic:
		return "acyclic"
	default:
		return fmt.Sprintf("sampling(%d)", uint8(t))
	}
}

// TimeSampling maps sample indices to times.
type TimeSampling struct {
	// MaxSample is the largest number of samples any property using this
	// sampling has written.
	MaxSample uint32

	// TimePerCycle is the time between cycles, or AcyclicTimePerCycle.
	TimePerCycle float64

	// StoredTimes are the times within one cycle (all times when acyclic).
	StoredTimes []float64
}

// Type classifies the sampling.
func (ts *TimeSampling) Type() SamplingType {
	switch {
	case ts.TimePerCycle == AcyclicTimePerCycle:
		return Acyclic
	case len(ts.StoredTimes) == 1:
		return Uniform
	default:
		return Cyclic
	}
}

// NumStoredTimes returns the number of times stored per cycle.
func (ts *TimeSampling) NumStoredTimes() int {
	return len(ts.StoredTimes)
}

// SampleTime returns the time of sample index.
func (ts *TimeSampling) SampleTime(index uint32) float64 {
	n := uint32(len(ts.StoredTimes))
	if n == 0 {
		return 0
	}
	switch ts.Type() {
	case Acyclic:
		return ts.StoredTimes[min(index, n-1)]
	case Uniform:
		return ts.StoredTimes[0] + float64(index)*ts.TimePerCycle
	default:
		return ts.StoredTimes[index%n] + float64(index/n)*ts.TimePerCycle
	}
}

func (ts *TimeSampling) String() string {
	return fmt.Sprintf("%s tpc=%g times=%v max=%d", ts.Type(), ts.TimePerCycle, ts.StoredTimes, ts.MaxSample)
}

// TimeSamplings is the archive-wide time sampling table.
type TimeSamplings struct {
	entries []*TimeSampling
}

// ReadTimeSamplings decodes the table blob: a sequence of
// u32 max sample, f64 time per cycle, u32 n, n × f64 stored times.
func ReadTimeSamplings(buf []byte, base int64) (*TimeSamplings, error) {
	t := &TimeSamplings{}
	d := binary.NewDecoder(buf, "read time samplings", base)
	for !d.Done() {
		maxSample, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}
		tpc, err := d.ReadFloat64()
		if err != nil {
			return nil, err
		}
		n, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errs.CorruptIndex("read time samplings", base+int64(d.Pos()), len(t.entries),
				"time sampling has no stored times")
		}
		if uint64(n)*8 > uint64(d.Remaining()) {
			return nil, errs.CorruptIndex("read time samplings", base+int64(d.Pos()), len(t.entries),
				"%d stored times overrun table", n)
		}
		times := make([]float64, n)
		for i := range times {
			if times[i], err = d.ReadFloat64(); err != nil {
				return nil, err
			}
		}
		t.entries = append(t.entries, &TimeSampling{
			MaxSample:    maxSample,
			TimePerCycle: tpc,
			StoredTimes:  times,
		})
	}
	return t, nil
}

// EncodeTimeSamplings serializes entries in table order.
func EncodeTimeSamplings(entries []*TimeSampling) []byte {
	buf := &binary.Buffer{}
	w := binary.NewWriter(buf)
	for _, ts := range entries {
		w.WriteUint32(ts.MaxSample)
		w.WriteFloat64(ts.TimePerCycle)
		w.WriteUint32(uint32(len(ts.StoredTimes)))
		for _, v := range ts.StoredTimes {
			w.WriteFloat64(v)
		}
	}
	return buf.Bytes()
}

// Len returns the number of entries.
func (t *TimeSamplings) Len() int {
	return len(t.entries)
}

// Resolve returns entry i.
func (t *TimeSamplings) Resolve(i int) (*TimeSampling, error) {
	if i < 0 || i >= len(t.entries) {
		return nil, errs.Corrupt("resolve time sampling", errs.NoOffset,
			"index %d outside table of %d entries", i, len(t.entries))
	}
	return t.entries[i], nil
}
