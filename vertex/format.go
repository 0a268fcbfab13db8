// Package vertex maps resolved struct layouts to GPU vertex input
// descriptors: per-field attribute formats, locations and offsets plus the
// binding stride, in the shape Vulkan's VkVertexInputAttributeDescription
// and VkVertexInputBindingDescription expect.
package vertex

import (
	"fmt"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
)

// Format identifies a vertex attribute format. Values match the VkFormat
// enum so descriptors can be handed to Vulkan without translation.
type Format uint32

const (
	FormatUndefined Format = 0

	FormatR8Unorm       Format = 9
	FormatR8Uint        Format = 13
	FormatR8Sint        Format = 14
	FormatR8G8Uint      Format = 20
	FormatR8G8Sint      Format = 21
	FormatR8G8B8Uint    Format = 27
	FormatR8G8B8Sint    Format = 28
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Uint  Format = 41
	FormatR8G8B8A8Sint  Format = 42

	FormatR16Uint            Format = 74
	FormatR16Sint            Format = 75
	FormatR16G16Uint         Format = 81
	FormatR16G16Sint         Format = 82
	FormatR16G16B16Uint      Format = 88
	FormatR16G16B16Sint      Format = 89
	FormatR16G16B16A16Uint   Format = 95
	FormatR16G16B16A16Sint   Format = 96
	FormatR16G16B16A16Sfloat Format = 97

	FormatR32Uint            Format = 98
	FormatR32Sint            Format = 99
	FormatR32Sfloat          Format = 100
	FormatR32G32Uint         Format = 101
	FormatR32G32Sint         Format = 102
	FormatR32G32Sfloat       Format = 103
	FormatR32G32B32Uint      Format = 104
	FormatR32G32B32Sint      Format = 105
	FormatR32G32B32Sfloat    Format = 106
	FormatR32G32B32A32Uint   Format = 107
	FormatR32G32B32A32Sint   Format = 108
	FormatR32G32B32A32Sfloat Format = 109

	FormatR64Uint            Format = 110
	FormatR64Sint            Format = 111
	FormatR64Sfloat          Format = 112
	FormatR64G64Uint         Format = 113
	FormatR64G64Sint         Format = 114
	FormatR64G64Sfloat       Format = 115
	FormatR64G64B64Uint      Format = 116
	FormatR64G64B64Sint      Format = 117
	FormatR64G64B64Sfloat    Format = 118
	FormatR64G64B64A64Uint   Format = 119
	FormatR64G64B64A64Sint   Format = 120
	FormatR64G64B64A64Sfloat Format = 121
)

type formatInfo struct {
	name string
	size uint32
}

var formatInfos = map[Format]formatInfo{
	FormatR8Unorm:       {"R8_UNORM", 1},
	FormatR8Uint:        {"R8_UINT", 1},
	FormatR8Sint:        {"R8_SINT", 1},
	FormatR8G8Uint:      {"R8G8_UINT", 2},
	FormatR8G8Sint:      {"R8G8_SINT", 2},
	FormatR8G8B8Uint:    {"R8G8B8_UINT", 3},
	FormatR8G8B8Sint:    {"R8G8B8_SINT", 3},
	FormatR8G8B8A8Unorm: {"R8G8B8A8_UNORM", 4},
	FormatR8G8B8A8Uint:  {"R8G8B8A8_UINT", 4},
	FormatR8G8B8A8Sint:  {"R8G8B8A8_SINT", 4},

	FormatR16Uint:            {"R16_UINT", 2},
	FormatR16Sint:            {"R16_SINT", 2},
	FormatR16G16Uint:         {"R16G16_UINT", 4},
	FormatR16G16Sint:         {"R16G16_SINT", 4},
	FormatR16G16B16Uint:      {"R16G16B16_UINT", 6},
	FormatR16G16B16Sint:      {"R16G16B16_SINT", 6},
	FormatR16G16B16A16Uint:   {"R16G16B16A16_UINT", 8},
	FormatR16G16B16A16Sint:   {"R16G16B16A16_SINT", 8},
	FormatR16G16B16A16Sfloat: {"R16G16B16A16_SFLOAT", 8},

	FormatR32Uint:            {"R32_UINT", 4},
	FormatR32Sint:            {"R32_SINT", 4},
	FormatR32Sfloat:          {"R32_SFLOAT", 4},
	FormatR32G32Uint:         {"R32G32_UINT", 8},
	FormatR32G32Sint:         {"R32G32_SINT", 8},
	FormatR32G32Sfloat:       {"R32G32_SFLOAT", 8},
	FormatR32G32B32Uint:      {"R32G32B32_UINT", 12},
	FormatR32G32B32Sint:      {"R32G32B32_SINT", 12},
	FormatR32G32B32Sfloat:    {"R32G32B32_SFLOAT", 12},
	FormatR32G32B32A32Uint:   {"R32G32B32A32_UINT", 16},
	FormatR32G32B32A32Sint:   {"R32G32B32A32_SINT", 16},
	FormatR32G32B32A32Sfloat: {"R32G32B32A32_SFLOAT", 16},

	FormatR64Uint:            {"R64_UINT", 8},
	FormatR64Sint:            {"R64_SINT", 8},
	FormatR64Sfloat:          {"R64_SFLOAT", 8},
	FormatR64G64Uint:         {"R64G64_UINT", 16},
	FormatR64G64Sint:         {"R64G64_SINT", 16},
	FormatR64G64Sfloat:       {"R64G64_SFLOAT", 16},
	FormatR64G64B64Uint:      {"R64G64B64_UINT", 24},
	FormatR64G64B64Sint:      {"R64G64B64_SINT", 24},
	FormatR64G64B64Sfloat:    {"R64G64B64_SFLOAT", 24},
	FormatR64G64B64A64Uint:   {"R64G64B64A64_UINT", 32},
	FormatR64G64B64A64Sint:   {"R64G64B64A64_SINT", 32},
	FormatR64G64B64A64Sfloat: {"R64G64B64A64_SFLOAT", 32},
}

// vectorFormats maps a field kind to its 1- through 4-lane formats. Kinds
// with no vertex representation (bool, nested structs) are absent.
var vectorFormats = map[format.Kind][4]Format{
	format.KindU8:  {FormatR8Uint, FormatR8G8Uint, FormatR8G8B8Uint, FormatR8G8B8A8Uint},
	format.KindI8:  {FormatR8Sint, FormatR8G8Sint, FormatR8G8B8Sint, FormatR8G8B8A8Sint},
	format.KindU16: {FormatR16Uint, FormatR16G16Uint, FormatR16G16B16Uint, FormatR16G16B16A16Uint},
	format.KindI16: {FormatR16Sint, FormatR16G16Sint, FormatR16G16B16Sint, FormatR16G16B16A16Sint},
	format.KindU32: {FormatR32Uint, FormatR32G32Uint, FormatR32G32B32Uint, FormatR32G32B32A32Uint},
	format.KindI32: {FormatR32Sint, FormatR32G32Sint, FormatR32G32B32Sint, FormatR32G32B32A32Sint},
	format.KindU64: {FormatR64Uint, FormatR64G64Uint, FormatR64G64B64Uint, FormatR64G64B64A64Uint},
	format.KindI64: {FormatR64Sint, FormatR64G64Sint, FormatR64G64B64Sint, FormatR64G64B64A64Sint},
	format.KindF32: {FormatR32Sfloat, FormatR32G32Sfloat, FormatR32G32B32Sfloat, FormatR32G32B32A32Sfloat},
	format.KindF64: {FormatR64Sfloat, FormatR64G64Sfloat, FormatR64G64B64Sfloat, FormatR64G64B64A64Sfloat},
}

func (f Format) String() string {
	if info, ok := formatInfos[f]; ok {
		return info.name
	}

	return fmt.Sprintf("Format(%d)", uint32(f))
}

// Size returns the attribute byte width, or 0 for unknown formats.
func (f Format) Size() uint32 {
	return formatInfos[f].size
}

// FormatFor returns the vertex format for a field kind and array count.
// Counts 0 and 1 select the scalar format, 2 through 4 the vector formats.
//
// Returns:
//   - Format: the matching format
//   - error: errs.ErrUnsupportedFormat for bool and struct kinds and for
//     counts above four lanes
func FormatFor(kind format.Kind, count uint32) (Format, error) {
	lanes := count
	if lanes == 0 {
		lanes = 1
	}

	if lanes > 4 {
		return FormatUndefined, fmt.Errorf("%w: %s with %d lanes", errs.ErrUnsupportedFormat, kind, count)
	}

	formats, ok := vectorFormats[kind]
	if !ok {
		return FormatUndefined, fmt.Errorf("%w: kind %s", errs.ErrUnsupportedFormat, kind)
	}

	return formats[lanes-1], nil
}
