package uri

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParsePathAttributes(t *testing.T) {
	attrs, err := parseAttributes("token=my-ca;object=my-signing-key;type=private", ";", pathAttributes)
	require.NoError(t, err)
	require.NotNil(t, attrs.TokenLabel)
	assert.Equal(t, "my-ca", *attrs.TokenLabel)
	require.NotNil(t, attrs.ObjectLabel)
	assert.Equal(t, "my-signing-key", *attrs.ObjectLabel)
	require.NotNil(t, attrs.ObjectClass)
	assert.Equal(t, PrivateKey, *attrs.ObjectClass)
	assert.Nil(t, attrs.SlotID)
	assert.Nil(t, attrs.ObjectID)
}

func Test_ParseAttributesEmpty(t *testing.T) {
	// an absent component list carries zero attributes
	attrs, err := parseAttributes("", ";", pathAttributes)
	require.NoError(t, err)
	assert.Equal(t, &PathAttributes{}, attrs)

	qattrs, err := parseAttributes("", "&", queryAttributes)
	require.NoError(t, err)
	assert.Equal(t, &QueryAttributes{}, qattrs)
}

func Test_ParseAttributesDuplicate(t *testing.T) {
	_, err := parseAttributes("object=a;object=b", ";", pathAttributes)
	require.Error(t, err)

	var dup *DuplicateAttributeError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "object", dup.Key)

	// duplicates are rejected even when the values are identical
	_, err = parseAttributes("pin-value=1234&pin-value=1234", "&", queryAttributes)
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "pin-value", dup.Key)
}

func Test_ParseAttributesUnknown(t *testing.T) {
	var unknown *UnknownAttributeError

	// leading, middle and trailing positions all fail the same way
	for _, in := range []string{
		"vendor=1;object=a",
		"object=a;vendor=1;type=cert",
		"object=a;vendor=1",
	} {
		_, err := parseAttributes(in, ";", pathAttributes)
		require.True(t, errors.As(err, &unknown), "input %q", in)
		assert.Equal(t, "vendor", unknown.Key)
	}

	// path attributes are not valid in the query and vice versa
	_, err := parseAttributes("object=a", "&", queryAttributes)
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "object", unknown.Key)

	_, err = parseAttributes("pin-value=1234", ";", pathAttributes)
	require.True(t, errors.As(err, &unknown))
}

func Test_ParseAttributesInvalidValue(t *testing.T) {
	_, err := parseAttributes("slot-id=forty;object=a", ";", pathAttributes)
	require.Error(t, err)

	var inv *InvalidValueError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "slot-id", inv.Key)
	assert.Equal(t, "forty", inv.Value)
	assert.NotNil(t, errors.Unwrap(inv))
}

func Test_ParseAttributesNoSeparator(t *testing.T) {
	_, err := parseAttributes("object", ";", pathAttributes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedURI))
}

func Test_ParseAttributesBinaryID(t *testing.T) {
	attrs, err := parseAttributes("id=%00%01%02%MN", ";", pathAttributes)
	require.Error(t, err)
	assert.Nil(t, attrs)

	attrs, err = parseAttributes("id=%00%01%02", ";", pathAttributes)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, attrs.ObjectID)
}
