// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapxMuK6SW508ZlkzΔANp04EAΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceiuXu3h63GURPsduCiUuzsAΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var IngestStatusMUS = ingestStatusMUS{}

type ingestStatusMUS struct{}

func (s ingestStatusMUS) Marshal(v IngestStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s ingestStatusMUS) Unmarshal(bs []byte) (v IngestStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = IngestStatus(tmp)
	return
}

func (s ingestStatusMUS) Size(v IngestStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s ingestStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var RecordMUS = recordMUS{}

type recordMUS struct{}

func (s recordMUS) Marshal(v Record, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.ArtifactPath, bs[n:])
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += mapxMuK6SW508ZlkzΔANp04EAΞΞ.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + sliceiuXu3h63GURPsduCiUuzsAΞΞ.Marshal(v.Vector, bs[n:])
}

func (s recordMUS) Unmarshal(bs []byte) (v Record, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ArtifactPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contents, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapxMuK6SW508ZlkzΔANp04EAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceiuXu3h63GURPsduCiUuzsAΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s recordMUS) Size(v Record) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.ArtifactPath)
	size += ord.String.Size(v.Contents)
	size += mapxMuK6SW508ZlkzΔANp04EAΞΞ.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.Timestamp)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + sliceiuXu3h63GURPsduCiUuzsAΞΞ.Size(v.Vector)
}

func (s recordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapxMuK6SW508ZlkzΔANp04EAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceiuXu3h63GURPsduCiUuzsAΞΞ.Skip(bs[n:])
	n += n1
	return
}

var ArtifactFileMUS = artifactFileMUS{}

type artifactFileMUS struct{}

func (s artifactFileMUS) Marshal(v ArtifactFile, bs []byte) (n int) {
	n = ord.String.Marshal(v.Path, bs)
	n += varint.Int64.Marshal(v.Size, bs[n:])
	n += ord.String.Marshal(v.FileType, bs[n:])
	n += ord.String.Marshal(v.MD5, bs[n:])
	n += ord.String.Marshal(v.SHA1, bs[n:])
	n += ord.String.Marshal(v.SHA256, bs[n:])
	n += varint.Int.Marshal(v.ItemCount, bs[n:])
	n += IngestStatusMUS.Marshal(v.Status, bs[n:])
	n += ord.String.Marshal(v.ErrDetail, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.EnteredAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s artifactFileMUS) Unmarshal(bs []byte) (v ArtifactFile, n int, err error) {
	v.Path, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Size, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MD5, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SHA1, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SHA256, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ItemCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = IngestStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ErrDetail, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EnteredAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s artifactFileMUS) Size(v ArtifactFile) (size int) {
	size = ord.String.Size(v.Path)
	size += varint.Int64.Size(v.Size)
	size += ord.String.Size(v.FileType)
	size += ord.String.Size(v.MD5)
	size += ord.String.Size(v.SHA1)
	size += ord.String.Size(v.SHA256)
	size += varint.Int.Size(v.ItemCount)
	size += IngestStatusMUS.Size(v.Status)
	size += ord.String.Size(v.ErrDetail)
	size += raw.TimeUnixMicro.Size(v.EnteredAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s artifactFileMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IngestStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
