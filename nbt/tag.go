package nbt

import (
	"fmt"
)

// TagType is the type byte preceding every tag.
type TagType uint8

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
)

var tagTypeNames = [...]string{
	TagEnd:       "End",
	TagByte:      "Byte",
	TagShort:     "Short",
	TagInt:       "Int",
	TagLong:      "Long",
	TagFloat:     "Float",
	TagDouble:    "Double",
	TagByteArray: "ByteArray",
	TagString:    "String",
	TagList:      "List",
	TagCompound:  "Compound",
	TagIntArray:  "IntArray",
}

func (t TagType) String() string {
	if t.valid() {
		return tagTypeNames[t]
	}
	return fmt.Sprintf("TagType(%d)", uint8(t))
}

func (t TagType) valid() bool {
	return t <= TagIntArray
}

// Tag is implemented by every tag payload type.
type Tag interface {
	Type() TagType
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
)

func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (IntArray) Type() TagType  { return TagIntArray }

// List is an ordered sequence of tags sharing one element type.
type List struct {
	elemType TagType
	elems    []Tag
}

// NewList creates a list of elemType holding elems. Every element must be
// of elemType.
func NewList(elemType TagType, elems ...Tag) (*List, error) {
	if !elemType.valid() {
		return nil, &InvalidTagTypeError{Type: uint8(elemType)}
	}
	l := &List{elemType: elemType}
	for _, e := range elems {
		if err := l.Add(e); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (*List) Type() TagType { return TagList }

// Add appends t, refusing it if it is not of the list's element type.
func (l *List) Add(t Tag) error {
	if t == nil || t.Type() != l.elemType {
		got := TagEnd
		if t != nil {
			got = t.Type()
		}
		return &TypeMismatchError{Name: fmt.Sprintf("[%d]", len(l.elems)), Want: l.elemType, Got: got}
	}
	l.elems = append(l.elems, t)
	return nil
}

func (l *List) ElemType() TagType { return l.elemType }
func (l *List) Len() int          { return len(l.elems) }
func (l *List) At(i int) Tag      { return l.elems[i] }

// Compound is a set of named tags which remembers insertion order. The
// zero value is an empty compound ready to use.
type Compound struct {
	names []string
	tags  map[string]Tag
}

func NewCompound() *Compound {
	return &Compound{tags: map[string]Tag{}}
}

func (*Compound) Type() TagType { return TagCompound }

// Set stores t under name. Replacing an existing tag keeps its position.
func (c *Compound) Set(name string, t Tag) {
	if t == nil {
		panic("nbt: nil tag")
	}
	if c.tags == nil {
		c.tags = map[string]Tag{}
	}
	if _, ok := c.tags[name]; !ok {
		c.names = append(c.names, name)
	}
	c.tags[name] = t
}

func (c *Compound) Get(name string) (Tag, bool) {
	t, ok := c.tags[name]
	return t, ok
}

func (c *Compound) Delete(name string) {
	if _, ok := c.tags[name]; !ok {
		return
	}
	delete(c.tags, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
}

// Names lists child names in insertion order.
func (c *Compound) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Compound) Len() int { return len(c.names) }

func get[T Tag](c *Compound, name string, want TagType) (T, error) {
	var zero T
	t, ok := c.tags[name]
	if !ok {
		return zero, &NotFoundError{Name: name}
	}
	v, ok := t.(T)
	if !ok {
		return zero, &TypeMismatchError{Name: name, Want: want, Got: t.Type()}
	}
	return v, nil
}

func (c *Compound) Byte(name string) (int8, error) {
	v, err := get[Byte](c, name, TagByte)
	return int8(v), err
}

func (c *Compound) Short(name string) (int16, error) {
	v, err := get[Short](c, name, TagShort)
	return int16(v), err
}

func (c *Compound) Int(name string) (int32, error) {
	v, err := get[Int](c, name, TagInt)
	return int32(v), err
}

func (c *Compound) Long(name string) (int64, error) {
	v, err := get[Long](c, name, TagLong)
	return int64(v), err
}

func (c *Compound) Float(name string) (float32, error) {
	v, err := get[Float](c, name, TagFloat)
	return float32(v), err
}

func (c *Compound) Double(name string) (float64, error) {
	v, err := get[Double](c, name, TagDouble)
	return float64(v), err
}

func (c *Compound) ByteArray(name string) ([]byte, error) {
	v, err := get[ByteArray](c, name, TagByteArray)
	return []byte(v), err
}

func (c *Compound) String(name string) (string, error) {
	v, err := get[String](c, name, TagString)
	return string(v), err
}

func (c *Compound) IntArray(name string) ([]int32, error) {
	v, err := get[IntArray](c, name, TagIntArray)
	return []int32(v), err
}

func (c *Compound) List(name string) (*List, error) {
	return get[*List](c, name, TagList)
}

func (c *Compound) Compound(name string) (*Compound, error) {
	return get[*Compound](c, name, TagCompound)
}
