package semantic

import "testing"

import "github.com/stretchr/testify/assert"

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "char[]", Array(Char).String())
	assert.Equal(t, "const int", ConstOf(Int).String())
	assert.Equal(t, "int(int, char)", Function(Int, Int, Char).String())
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, Array(Int).Equal(Array(Int)))
	assert.False(t, Array(Int).Equal(Array(Char)))
	assert.True(t, Function(Int, Char).Equal(Function(Int, Char)))
	assert.False(t, Function(Int, Char).Equal(Function(Int)))
}

func TestStripConst(t *testing.T) {
	assert.Equal(t, Int, StripConst(ConstOf(Int)))
	assert.Equal(t, Int, StripConst(Int))
}

func TestIsIntConvertible(t *testing.T) {
	assert.True(t, IsIntConvertible(Int))
	assert.True(t, IsIntConvertible(Char))
	assert.True(t, IsIntConvertible(ConstOf(Char)))
	assert.False(t, IsIntConvertible(Void))
	assert.False(t, IsIntConvertible(Array(Int)))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(Char, Int))
	assert.False(t, CanAssign(Int, Char))
	assert.True(t, CanAssign(Int, ConstOf(Int)))
	assert.True(t, CanAssign(Array(Char), Array(Char)))
	assert.False(t, CanAssign(Array(Int), Array(Char)))
	assert.False(t, CanAssign(Void, Int))
}

func TestCanCast(t *testing.T) {
	assert.True(t, CanCast(Int, Char))
	assert.True(t, CanCast(Char, Int))
	assert.False(t, CanCast(Array(Int), Int))
	assert.False(t, CanCast(Int, Void))
}

func TestArithmeticResult(t *testing.T) {
	res, err := ArithmeticResult(Int, Char)
	assert.NoError(t, err)
	assert.Equal(t, Int, res)

	_, err = ArithmeticResult(Int, Void)
	assert.Error(t, err)
}

func TestValidateConstruction(t *testing.T) {
	assert.NoError(t, ValidateConstruction(ConstOf(Int)))
	assert.Error(t, ValidateConstruction(ConstOf(Void)))
	assert.Error(t, ValidateConstruction(ConstOf(Function(Int))))
	assert.Error(t, ValidateConstruction(Array(Void)))
	assert.Error(t, ValidateConstruction(Array(Function(Int))))
}
