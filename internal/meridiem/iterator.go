package meridiem

// Iterator walks from a start time toward an end time in tick-sized steps.
// Each Next call yields the pre-advance value, and iteration stops (without
// yielding) once the advance would pass the end: a value is produced only when
// value+tick still lands at or before end. Stepping a slot range this way
// covers every slot from start up to but excluding end. Restart by
// constructing a new Iterator.
type Iterator struct {
	current MeridiemTime
	end     MeridiemTime
	tick    TimeTick
}

func NewIterator(start, end MeridiemTime, tick TimeTick) *Iterator {
	return &Iterator{current: start, end: end, tick: tick}
}

// Next returns the next time in the sequence and whether one was produced.
func (it *Iterator) Next() (MeridiemTime, bool) {
	advanced := it.current.Add(it.tick)
	if advanced.After(it.end) {
		return MeridiemTime{}, false
	}

	now := it.current
	it.current = advanced
	return now, true
}
