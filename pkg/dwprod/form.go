package dwprod

// form is an attribute form code (DWARF 5 section 7.5.6).
type form uint64

const (
	formAddr          form = 0x01
	formBlock2        form = 0x03
	formBlock4        form = 0x04
	formData2         form = 0x05
	formData4         form = 0x06
	formData8         form = 0x07
	formString        form = 0x08
	formBlock         form = 0x09
	formBlock1        form = 0x0a
	formData1         form = 0x0b
	formFlag          form = 0x0c
	formSdata         form = 0x0d
	formStrp          form = 0x0e
	formUdata         form = 0x0f
	formRefAddr       form = 0x10
	formRef1          form = 0x11
	formRef2          form = 0x12
	formRef4          form = 0x13
	formRef8          form = 0x14
	formRefUdata      form = 0x15
	formIndirect      form = 0x16
	formSecOffset     form = 0x17
	formExprloc       form = 0x18
	formFlagPresent   form = 0x19
	formStrx          form = 0x1a
	formAddrx         form = 0x1b
	formRefSup4       form = 0x1c
	formStrpSup       form = 0x1d
	formData16        form = 0x1e
	formLineStrp      form = 0x1f
	formRefSig8       form = 0x20
	formImplicitConst form = 0x21
	formLoclistx      form = 0x22
	formRnglistx      form = 0x23
	formRefSup8       form = 0x24
	formStrx1         form = 0x25
	formStrx2         form = 0x26
	formStrx3         form = 0x27
	formStrx4         form = 0x28
	formAddrx1        form = 0x29
	formAddrx2        form = 0x2a
	formAddrx3        form = 0x2b
	formAddrx4        form = 0x2c

	formGNUAddrIndex form = 0x1f01
	formGNUStrIndex  form = 0x1f02
	formGNURefAlt    form = 0x1f20
	formGNUStrpAlt   form = 0x1f21
)

// formClass says how a form's value is laid out in .debug_info.
type formClass uint8

const (
	classFixed    formClass = iota // size bytes of inline data
	classAddress                   // address-size bytes
	classOffset                    // offset-size bytes, not a string
	classRefAddr                   // address-size in DWARF 2, offset-size after
	classULEB                      // unsigned LEB128
	classSLEB                      // signed LEB128
	classBlock                     // size-byte length prefix, or ULEB128 when size is 0
	classString                    // inline NUL-terminated string
	classStrp                      // offset-size offset into .debug_str
	classLineStrp                  // offset-size offset into .debug_line_str
	classStrx                      // index into .debug_str_offsets, size bytes or ULEB128 when 0
	classIndirect                  // ULEB128 form code followed by a value of that form
	classImplicit                  // no data; value lives in the abbreviation
)

type formSpec struct {
	class formClass
	size  int
}

var formSpecs = map[form]formSpec{
	formAddr:          {class: classAddress},
	formBlock2:        {class: classBlock, size: 2},
	formBlock4:        {class: classBlock, size: 4},
	formData2:         {class: classFixed, size: 2},
	formData4:         {class: classFixed, size: 4},
	formData8:         {class: classFixed, size: 8},
	formString:        {class: classString},
	formBlock:         {class: classBlock},
	formBlock1:        {class: classBlock, size: 1},
	formData1:         {class: classFixed, size: 1},
	formFlag:          {class: classFixed, size: 1},
	formSdata:         {class: classSLEB},
	formStrp:          {class: classStrp},
	formUdata:         {class: classULEB},
	formRefAddr:       {class: classRefAddr},
	formRef1:          {class: classFixed, size: 1},
	formRef2:          {class: classFixed, size: 2},
	formRef4:          {class: classFixed, size: 4},
	formRef8:          {class: classFixed, size: 8},
	formRefUdata:      {class: classULEB},
	formIndirect:      {class: classIndirect},
	formSecOffset:     {class: classOffset},
	formExprloc:       {class: classBlock},
	formFlagPresent:   {class: classImplicit},
	formStrx:          {class: classStrx},
	formAddrx:         {class: classULEB},
	formRefSup4:       {class: classFixed, size: 4},
	formStrpSup:       {class: classOffset},
	formData16:        {class: classFixed, size: 16},
	formLineStrp:      {class: classLineStrp},
	formRefSig8:       {class: classFixed, size: 8},
	formImplicitConst: {class: classImplicit},
	formLoclistx:      {class: classULEB},
	formRnglistx:      {class: classULEB},
	formRefSup8:       {class: classFixed, size: 8},
	formStrx1:         {class: classStrx, size: 1},
	formStrx2:         {class: classStrx, size: 2},
	formStrx3:         {class: classStrx, size: 3},
	formStrx4:         {class: classStrx, size: 4},
	formAddrx1:        {class: classFixed, size: 1},
	formAddrx2:        {class: classFixed, size: 2},
	formAddrx3:        {class: classFixed, size: 3},
	formAddrx4:        {class: classFixed, size: 4},

	formGNUAddrIndex: {class: classULEB},
	formGNUStrIndex:  {class: classStrx},
	formGNURefAlt:    {class: classOffset},
	formGNUStrpAlt:   {class: classOffset},
}

func lookupForm(f form) (formSpec, bool) {
	spec, ok := formSpecs[f]
	return spec, ok
}

// skipValue advances r past one attribute value of the given form.
// Indirect forms must be resolved by the caller.
func skipValue(r *reader, enc encoding, f form) error {
	spec, ok := lookupForm(f)
	if !ok {
		return parseErrorf(ErrUnsupportedForm, r.section, r.offset(), "unknown form 0x%x", uint64(f))
	}

	switch spec.class {
	case classFixed:
		return r.skip(uint64(spec.size))
	case classAddress:
		return r.skip(uint64(enc.addrSize))
	case classOffset, classStrp, classLineStrp:
		return r.skip(uint64(enc.offsetSize))
	case classRefAddr:
		if enc.version <= 2 {
			return r.skip(uint64(enc.addrSize))
		}
		return r.skip(uint64(enc.offsetSize))
	case classULEB:
		_, err := r.uleb()
		return err
	case classSLEB:
		_, err := r.sleb()
		return err
	case classBlock:
		n, err := readBlockLength(r, spec.size)
		if err != nil {
			return err
		}
		return r.skip(n)
	case classString:
		_, err := r.cstring()
		return err
	case classStrx:
		_, err := readStrIndex(r, spec.size)
		return err
	case classImplicit:
		return nil
	}

	return parseErrorf(ErrUnsupportedForm, r.section, r.offset(), "form 0x%x cannot be skipped directly", uint64(f))
}

func readBlockLength(r *reader, size int) (uint64, error) {
	if size == 0 {
		return r.uleb()
	}
	return r.uint(size)
}

func readStrIndex(r *reader, size int) (uint64, error) {
	if size == 0 {
		return r.uleb()
	}
	return r.uint(size)
}
