package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text   string
		want   Version
		wantOK bool
	}{
		"leading v":           {text: "v1.2.3 -- 2022-04-06", want: "v1.2.3", wantOK: true},
		"dates are not":       {text: "Oops, fixed on 6/16/2021."},
		"after a date":        {text: "2022-Apr-06: 12.3-alpha0 finally", want: "12.3-alpha0", wantOK: true},
		"attached prerelease": {text: "2.7.19beta1, 2022-04-08", want: "2.7.19beta1", wantOK: true},
		"plain title":         {text: "1.2 - 2020-02-25", want: "1.2", wantOK: true},
		"no version":          {text: "Unreleased"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := FindVersion(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionPrerelease(t *testing.T) {
	t.Parallel()

	for _, v := range []Version{"v1.2.3", "17.4.1.3", "not a version"} {
		assert.False(t, v.IsPrerelease(), v)
	}
	for _, v := range []Version{"v1.2.3a1", "17.4.1.3-beta.2", "2.0rc1"} {
		assert.True(t, v.IsPrerelease(), v)
	}
}

func TestVersionEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Version("v1.2.3").Equal("1.2.3"))
	assert.True(t, Version("1.2.3").Equal("v1.2.3"))
	assert.False(t, Version("1.2.3").Equal("1.2.4"))
	assert.Equal(t, "1.2", NormalizeVersion(" v1.2 "))
}
