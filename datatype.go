package nisar

import (
	"fmt"

	"github.com/nci/nisar/container"
)

// DataType is the pixel type of a raster band.
type DataType int

const (
	TypeUnknown DataType = iota
	TypeUInt8
	TypeInt8
	TypeUInt16
	TypeInt16
	TypeUInt32
	TypeInt32
	TypeUInt64
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeCInt16
	TypeCInt32
	TypeCFloat32
	TypeCFloat64
)

var dataTypeNames = map[DataType]string{
	TypeUInt8:    "UInt8",
	TypeInt8:     "Int8",
	TypeUInt16:   "UInt16",
	TypeInt16:    "Int16",
	TypeUInt32:   "UInt32",
	TypeInt32:    "Int32",
	TypeUInt64:   "UInt64",
	TypeInt64:    "Int64",
	TypeFloat32:  "Float32",
	TypeFloat64:  "Float64",
	TypeCInt16:   "CInt16",
	TypeCInt32:   "CInt32",
	TypeCFloat32: "CFloat32",
	TypeCFloat64: "CFloat64",
}

func (t DataType) String() string {
	if s, ok := dataTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Size is the per-pixel byte width.
func (t DataType) Size() int {
	switch t {
	case TypeUInt8, TypeInt8:
		return 1
	case TypeUInt16, TypeInt16:
		return 2
	case TypeUInt32, TypeInt32, TypeFloat32, TypeCInt16:
		return 4
	case TypeUInt64, TypeInt64, TypeFloat64, TypeCInt32, TypeCFloat32:
		return 8
	case TypeCFloat64:
		return 16
	}
	return 0
}

func (t DataType) IsComplex() bool {
	switch t {
	case TypeCInt16, TypeCInt32, TypeCFloat32, TypeCFloat64:
		return true
	}
	return false
}

// resolveDataType maps a container element type to a band pixel type.
// A compound is complex only when it has exactly two members of one
// underlying type whose names start with r/R and i/I; anything else is
// unsupported and fails the open.
func resolveDataType(info container.TypeInfo) (DataType, error) {
	switch info.Class {
	case container.ClassInteger:
		switch info.Size {
		case 1:
			return pick(info.Signed, TypeInt8, TypeUInt8), nil
		case 2:
			return pick(info.Signed, TypeInt16, TypeUInt16), nil
		case 4:
			return pick(info.Signed, TypeInt32, TypeUInt32), nil
		case 8:
			return pick(info.Signed, TypeInt64, TypeUInt64), nil
		}
		return TypeUnknown, fmt.Errorf("nisar: unsupported %d-byte integer element", info.Size)

	case container.ClassFloat:
		switch info.Size {
		case 4:
			return TypeFloat32, nil
		case 8:
			return TypeFloat64, nil
		}
		return TypeUnknown, fmt.Errorf("nisar: unsupported %d-byte float element", info.Size)

	case container.ClassCompound:
		return resolveComplexType(info)
	}
	return TypeUnknown, fmt.Errorf("nisar: unsupported element type class")
}

func resolveComplexType(info container.TypeInfo) (DataType, error) {
	if len(info.Members) != 2 || len(info.MemberNames) != 2 || !info.MembersEqual {
		return TypeUnknown, fmt.Errorf("nisar: unsupported compound element type")
	}
	r, i := info.MemberNames[0], info.MemberNames[1]
	if len(r) == 0 || len(i) == 0 ||
		(r[0] != 'r' && r[0] != 'R') || (i[0] != 'i' && i[0] != 'I') {
		return TypeUnknown, fmt.Errorf("nisar: compound members %q/%q do not follow the real/imaginary convention", r, i)
	}
	m := info.Members[0]
	switch m.Class {
	case container.ClassInteger:
		switch m.Size {
		case 2:
			return TypeCInt16, nil
		case 4:
			return TypeCInt32, nil
		}
	case container.ClassFloat:
		switch m.Size {
		case 4:
			return TypeCFloat32, nil
		case 8:
			return TypeCFloat64, nil
		}
	}
	return TypeUnknown, fmt.Errorf("nisar: unsupported complex member type")
}

func pick(signed bool, s, u DataType) DataType {
	if signed {
		return s
	}
	return u
}
