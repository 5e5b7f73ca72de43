package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeResultProperties(t *testing.T) {
	raw := `{
		"streams": [
			{
				"codec_name": "mpeg2video",
				"codec_type": "video",
				"profile": "4:2:2",
				"level": 5,
				"width": 1920,
				"height": 1080,
				"pix_fmt": "yuv422p",
				"field_order": "bb",
				"r_frame_rate": "25/1",
				"display_aspect_ratio": "16:9",
				"bit_rate": "50000000",
				"tags": {"gop_size": "M=3,N=12", "encoder": "x262"}
			}
		]
	}`

	var result ProbeResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))

	props, err := result.Properties()
	require.NoError(t, err)

	assert.Equal(t, "mpeg2video", props.CodecName)
	assert.Equal(t, "4:2:2", props.Profile)
	assert.Equal(t, FrameRate{25, 1}, props.FrameRate)
	assert.Equal(t, AspectRatio{16, 9}, props.AspectRatio)
	assert.Equal(t, ScanTypeInterlaced, props.ScanType)
	assert.Equal(t, ScanOrderBFF, props.ScanOrder)
	assert.Equal(t, GOP{M: 3, N: 12, Tagged: true}, props.GOP)
}

func TestProbeResultProperties_NoStream(t *testing.T) {
	result := ProbeResult{}
	_, err := result.Properties()
	assert.ErrorIs(t, err, ErrNoVideoStream)

	result = ProbeResult{Streams: []ProbeStream{}}
	_, err = result.Properties()
	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestProbeResultProperties_MalformedGOPTag(t *testing.T) {
	result := ProbeResult{Streams: []ProbeStream{{
		CodecName:     "h264",
		RFrameRate:    "25/1",
		DisplayAspect: "16:9",
		Tags:          map[string]string{"gop_size": "garbage"},
	}}}

	_, err := result.Properties()
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "tags.gop_size", fieldErr.Field)
}

func TestMediaParseProbe(t *testing.T) {
	m := &Media{ProbeJSON: `{"streams":[{"codec_name":"h264","codec_type":"video"}]}`}

	result, err := m.ParseProbe()
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "h264", result.Streams[0].CodecName)

	m = &Media{}
	result, err = m.ParseProbe()
	require.NoError(t, err)
	assert.Nil(t, result)

	m = &Media{ProbeJSON: "{"}
	_, err = m.ParseProbe()
	assert.Error(t, err)
}
