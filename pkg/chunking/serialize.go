package chunking

import "github.com/bytedance/sonic"

// intMetadataKeys are the documented metadata keys whose Go value is int
// (spec §3/§6). sonic, like encoding/json, decodes any JSON number into a
// map[string]any as float64; restoreIntMetadata converts them back, and
// UnmarshalResult turns section_tags back into []string, so a round trip
// reproduces the exact Go types the chunker first produced.
var intMetadataKeys = []string{
	MetaChunkIndex,
	MetaSize,
	MetaLineCount,
	MetaHeaderLevel,
	MetaRowCount,
	MetaColumnCount,
	MetaOverlapSize,
}

// MarshalResult and UnmarshalResult round-trip a ChunkingResult through
// JSON losslessly (spec §6): every ChunkingResult and Chunk field carries an
// explicit json tag, so re-parsing a marshaled result reproduces the same Chunks,
// Metadata, and strategy bookkeeping.
func MarshalResult(r *ChunkingResult) ([]byte, error) { return sonic.Marshal(r) }

func UnmarshalResult(data []byte) (*ChunkingResult, error) {
	var r ChunkingResult
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	for i := range r.Chunks {
		meta := r.Chunks[i].Metadata
		restoreIntMetadata(meta)
		if raw, ok := meta[MetaSectionTags]; ok {
			items, _ := raw.([]any)
			var tags []string
			for _, item := range items {
				if s, ok := item.(string); ok {
					tags = append(tags, s)
				}
			}
			meta[MetaSectionTags] = tags
		}
	}
	return &r, nil
}

// restoreIntMetadata converts the documented int-valued metadata keys back
// from float64 (JSON's only number representation) to int in place.
func restoreIntMetadata(meta map[string]any) {
	for _, key := range intMetadataKeys {
		if f, ok := meta[key].(float64); ok {
			meta[key] = int(f)
		}
	}
}

func MarshalConfig(cfg ChunkConfig) ([]byte, error) { return sonic.Marshal(cfg) }

func UnmarshalConfig(data []byte) (ChunkConfig, error) {
	var cfg ChunkConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return ChunkConfig{}, err
	}
	return cfg, nil
}
