package diarize

import (
	"encoding/json"
	"fmt"
	"strconv"

	"dubber/internal/transcript"
)

// segment mirrors the {"start": ..., "end": ...} shape pyannote-style services
// emit for a speech span. Services that serialize segments as [start, end]
// pairs are tolerated too.
type segment struct {
	Start float64
	End   float64
}

func (s *segment) UnmarshalJSON(data []byte) error {
	var obj struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Start, s.End = obj.Start, obj.End
		return nil
	}
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("segment: expected 2 elements, got %d", len(pair))
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// normalizeTrack accepts the track shapes diarization services are known to
// emit and flattens them into a Turn:
//
//	{"speaker": ..., "start": ..., "end": ...}   flat object
//	[segment, track_id, speaker]                 flat track tuple
//	[[segment, track_id], speaker]               nested track tuple
func normalizeTrack(raw json.RawMessage) (transcript.Turn, error) {
	var obj struct {
		Speaker    *string `json:"speaker"`
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		TrackIndex int     `json:"track_index"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Speaker != nil {
		return transcript.Turn{Speaker: *obj.Speaker, Start: obj.Start, End: obj.End, TrackIndex: obj.TrackIndex}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return transcript.Turn{}, fmt.Errorf("unrecognized track shape: %s", summarize(raw))
	}

	switch len(elems) {
	case 3:
		var seg segment
		if err := json.Unmarshal(elems[0], &seg); err != nil {
			return transcript.Turn{}, err
		}
		speaker, err := decodeSpeaker(elems[2])
		if err != nil {
			return transcript.Turn{}, err
		}
		return transcript.Turn{Speaker: speaker, Start: seg.Start, End: seg.End, TrackIndex: decodeTrackIndex(elems[1])}, nil
	case 2:
		speaker, err := decodeSpeaker(elems[1])
		if err != nil {
			return transcript.Turn{}, err
		}
		// [segment, speaker] without a track id.
		var seg segment
		if err := json.Unmarshal(elems[0], &seg); err == nil {
			return transcript.Turn{Speaker: speaker, Start: seg.Start, End: seg.End}, nil
		}
		// [[segment, track_id], speaker]
		var nested []json.RawMessage
		if err := json.Unmarshal(elems[0], &nested); err != nil || len(nested) != 2 {
			return transcript.Turn{}, fmt.Errorf("unrecognized track shape: %s", summarize(raw))
		}
		if err := json.Unmarshal(nested[0], &seg); err != nil {
			return transcript.Turn{}, err
		}
		return transcript.Turn{Speaker: speaker, Start: seg.Start, End: seg.End, TrackIndex: decodeTrackIndex(nested[1])}, nil
	default:
		return transcript.Turn{}, fmt.Errorf("unexpected track tuple length %d", len(elems))
	}
}

// decodeTrackIndex tolerates numeric and numeric-string track ids; anything
// else maps to zero.
func decodeTrackIndex(raw json.RawMessage) int {
	var index int
	if err := json.Unmarshal(raw, &index); err == nil {
		return index
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.Atoi(s); err == nil {
			return parsed
		}
	}
	return 0
}

func decodeSpeaker(raw json.RawMessage) (string, error) {
	var speaker string
	if err := json.Unmarshal(raw, &speaker); err != nil {
		return "", fmt.Errorf("speaker label: %w", err)
	}
	return speaker, nil
}

func summarize(raw json.RawMessage) string {
	const limit = 80
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
