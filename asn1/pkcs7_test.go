package asn1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mozilla.org/pkcs7"
)

// degenerateSignedData is a minimal PKCS#7 ContentInfo wrapping a
// degenerate SignedData (RFC 2315 §9.1): no signer infos, no embedded
// content, the shape go.mozilla.org/pkcs7 (this module's PKCS#7
// dependency) parses when extracting a bare certificate store such as
// an Authenticode catalog or a .p7b file. It is hand-assembled here
// rather than produced by pkcs7.DegenerateCertificate so the exact
// bytes driving the decoder are visible in the test.
//
//	SEQUENCE {                                 ContentInfo
//	  OBJECT IDENTIFIER 1.2.840.113549.1.7.2      contentType: signedData
//	  [0] {                                       content, EXPLICIT
//	    SEQUENCE {                                SignedData
//	      INTEGER 1                                 version
//	      SET {}                                     digestAlgorithms
//	      SEQUENCE {                                 contentInfo
//	        OBJECT IDENTIFIER 1.2.840.113549.1.7.1      contentType: data
//	      }
//	      SET {}                                     signerInfos
//	    }
//	  }
//	}
const degenerateSignedDataHex = "" +
	"3023" +
	"0609" + "2a864886f70d010702" +
	"a016" +
	"3014" +
	"020101" +
	"3100" +
	"300b" + "0609" + "2a864886f70d010701" +
	"3100"

var signedDataOID = []uint32{1, 2, 840, 113549, 1, 7, 2}
var dataOID = []uint32{1, 2, 840, 113549, 1, 7, 1}

// TestDecodeDegenerateSignedData exercises the recursive SEQUENCE /
// context-tag descent (§4.6) against a real-world PKCS#7 ContentInfo
// shape, the one go.mozilla.org/pkcs7.Parse expects at the outermost
// level of every certificate blob it handles.
func TestDecodeDegenerateSignedData(t *testing.T) {
	d := New(mustHexDecode(t, degenerateSignedDataHex))

	outer := d.DecodeSequence()
	require.Nil(t, d.GetError())
	require.Len(t, outer, 2)

	contentType := outer[0]
	assert.Equal(t, TagClassUniversal, contentType.TagClass())
	assert.EqualValues(t, TagObjectID, contentType.IdentifierNumber())
	assert.Equal(t, signedDataOID, contentType.DecodeObjectIdentifier())

	explicit := outer[1]
	assert.Equal(t, TagClassContextSpecific, explicit.TagClass())
	assert.EqualValues(t, 0, explicit.IdentifierNumber())
	assert.True(t, explicit.IsConstructed())

	signedData := explicit.DecodeSequence()
	require.Nil(t, explicit.GetError())
	require.Len(t, signedData, 4)

	version := signedData[0]
	assert.EqualValues(t, TagInteger, version.IdentifierNumber())
	assert.EqualValues(t, 1, version.DecodeInteger())

	digestAlgorithms := signedData[1]
	assert.EqualValues(t, TagSet, digestAlgorithms.IdentifierNumber())
	assert.Empty(t, digestAlgorithms.DecodeSet())

	innerContentInfo := signedData[2].DecodeSequence()
	require.Nil(t, signedData[2].GetError())
	require.Len(t, innerContentInfo, 1)
	assert.Equal(t, dataOID, innerContentInfo[0].DecodeObjectIdentifier())

	signerInfos := signedData[3]
	assert.EqualValues(t, TagSet, signerInfos.IdentifierNumber())
	assert.Empty(t, signerInfos.DecodeSet())
}

// TestDegenerateSignedDataParsesViaPKCS7 cross-checks the fixture
// against go.mozilla.org/pkcs7's own parser, so the two decoders are
// demonstrably reading the same wire shape rather than two unrelated
// encodings that happen to both be named "PKCS#7".
func TestDegenerateSignedDataParsesViaPKCS7(t *testing.T) {
	raw := mustHexDecode(t, degenerateSignedDataHex)
	der := make([]byte, raw.Len())
	for i := range der {
		der[i] = raw.GetElement(i)
	}
	p7, err := pkcs7.Parse(der)
	require.NoError(t, err)
	assert.Empty(t, p7.Certificates)
	assert.Empty(t, p7.Signers)
}
