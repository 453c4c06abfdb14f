package ir

// Operator identifies the operation performed by a Unary, Binary,
// Aggregate or Branch node.
type Operator uint8

const (
	OpNull Operator = iota
	OpSequence
	OpFunctionCall
	OpFunction
	OpParameters
	OpDeclaration
	OpInvariantDeclaration
	OpPrototype

	// unary
	OpNegative
	OpLogicalNot
	OpVectorLogicalNot
	OpPostIncrement
	OpPostDecrement
	OpPreIncrement
	OpPreDecrement

	// binary
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEqual
	OpNotEqual
	OpVectorEqual
	OpVectorNotEqual
	OpLessThan
	OpGreaterThan
	OpLessThanEqual
	OpGreaterThanEqual
	OpComma

	OpVectorTimesScalar
	OpVectorTimesMatrix
	OpMatrixTimesVector
	OpMatrixTimesScalar
	OpMatrixTimesMatrix

	OpLogicalOr
	OpLogicalXor
	OpLogicalAnd

	OpIndexDirect
	OpIndexIndirect
	OpIndexDirectStruct
	OpIndexDirectInterfaceBlock
	OpVectorSwizzle

	// built-in functions
	OpRadians
	OpDegrees
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpPow
	OpExp
	OpLog
	OpExp2
	OpLog2
	OpSqrt
	OpInverseSqrt
	OpAbs
	OpSign
	OpFloor
	OpCeil
	OpFract
	OpMod
	OpMin
	OpMax
	OpClamp
	OpMix
	OpStep
	OpSmoothStep
	OpLength
	OpDistance
	OpDot
	OpCross
	OpNormalize
	OpFaceForward
	OpReflect
	OpRefract
	OpDFdx
	OpDFdy
	OpFwidth
	OpAny
	OpAll

	// branches
	OpKill
	OpReturn
	OpBreak
	OpContinue

	// constructors
	OpConstructInt
	OpConstructUInt
	OpConstructBool
	OpConstructFloat
	OpConstructVec2
	OpConstructVec3
	OpConstructVec4
	OpConstructBVec2
	OpConstructBVec3
	OpConstructBVec4
	OpConstructIVec2
	OpConstructIVec3
	OpConstructIVec4
	OpConstructUVec2
	OpConstructUVec3
	OpConstructUVec4
	OpConstructMat2
	OpConstructMat3
	OpConstructMat4
	OpConstructStruct

	// assignments
	OpAssign
	OpInitialize
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpVectorTimesMatrixAssign
	OpVectorTimesScalarAssign
	OpMatrixTimesScalarAssign
	OpMatrixTimesMatrixAssign
	OpDivAssign
)

var operatorNames = map[Operator]string{
	OpNull:                 "null",
	OpSequence:             "Sequence",
	OpFunctionCall:         "Function Call",
	OpFunction:             "Function Definition",
	OpParameters:           "Function Parameters",
	OpDeclaration:          "Declaration",
	OpInvariantDeclaration: "Invariant Declaration",
	OpPrototype:            "Prototype",

	OpNegative:         "Negate value",
	OpLogicalNot:       "Negate conditional",
	OpVectorLogicalNot: "Negate conditional",
	OpPostIncrement:    "Post-Increment",
	OpPostDecrement:    "Post-Decrement",
	OpPreIncrement:     "Pre-Increment",
	OpPreDecrement:     "Pre-Decrement",

	OpAdd:              "add",
	OpSub:              "subtract",
	OpMul:              "component-wise multiply",
	OpDiv:              "divide",
	OpEqual:            "Compare Equal",
	OpNotEqual:         "Compare Not Equal",
	OpVectorEqual:      "Equal",
	OpVectorNotEqual:   "NotEqual",
	OpLessThan:         "Compare Less Than",
	OpGreaterThan:      "Compare Greater Than",
	OpLessThanEqual:    "Compare Less Than or Equal",
	OpGreaterThanEqual: "Compare Greater Than or Equal",
	OpComma:            "comma",

	OpVectorTimesScalar: "vector-scale",
	OpVectorTimesMatrix: "vector-times-matrix",
	OpMatrixTimesVector: "matrix-times-vector",
	OpMatrixTimesScalar: "matrix-scale",
	OpMatrixTimesMatrix: "matrix-multiply",

	OpLogicalOr:  "logical-or",
	OpLogicalXor: "logical-xor",
	OpLogicalAnd: "logical-and",

	OpIndexDirect:               "direct index",
	OpIndexIndirect:             "indirect index",
	OpIndexDirectStruct:         "direct index for structure",
	OpIndexDirectInterfaceBlock: "direct index for interface block",
	OpVectorSwizzle:             "vector swizzle",

	OpRadians:     "radians",
	OpDegrees:     "degrees",
	OpSin:         "sine",
	OpCos:         "cosine",
	OpTan:         "tangent",
	OpAsin:        "arc sine",
	OpAcos:        "arc cosine",
	OpAtan:        "arc tangent",
	OpPow:         "pow",
	OpExp:         "exp",
	OpLog:         "log",
	OpExp2:        "exp2",
	OpLog2:        "log2",
	OpSqrt:        "sqrt",
	OpInverseSqrt: "inverse sqrt",
	OpAbs:         "Absolute value",
	OpSign:        "Sign",
	OpFloor:       "Floor",
	OpCeil:        "Ceiling",
	OpFract:       "Fraction",
	OpMod:         "mod",
	OpMin:         "min",
	OpMax:         "max",
	OpClamp:       "clamp",
	OpMix:         "mix",
	OpStep:        "step",
	OpSmoothStep:  "smoothstep",
	OpLength:      "length",
	OpDistance:    "distance",
	OpDot:         "dot-product",
	OpCross:       "cross-product",
	OpNormalize:   "normalize",
	OpFaceForward: "face-forward",
	OpReflect:     "reflect",
	OpRefract:     "refract",
	OpDFdx:        "dPdx",
	OpDFdy:        "dPdy",
	OpFwidth:      "fwidth",
	OpAny:         "any",
	OpAll:         "all",

	OpKill:     "Branch: Kill",
	OpReturn:   "Branch: Return",
	OpBreak:    "Branch: Break",
	OpContinue: "Branch: Continue",

	OpConstructInt:    "Construct int",
	OpConstructUInt:   "Construct uint",
	OpConstructBool:   "Construct bool",
	OpConstructFloat:  "Construct float",
	OpConstructVec2:   "Construct vec2",
	OpConstructVec3:   "Construct vec3",
	OpConstructVec4:   "Construct vec4",
	OpConstructBVec2:  "Construct bvec2",
	OpConstructBVec3:  "Construct bvec3",
	OpConstructBVec4:  "Construct bvec4",
	OpConstructIVec2:  "Construct ivec2",
	OpConstructIVec3:  "Construct ivec3",
	OpConstructIVec4:  "Construct ivec4",
	OpConstructUVec2:  "Construct uvec2",
	OpConstructUVec3:  "Construct uvec3",
	OpConstructUVec4:  "Construct uvec4",
	OpConstructMat2:   "Construct mat2",
	OpConstructMat3:   "Construct mat3",
	OpConstructMat4:   "Construct mat4",
	OpConstructStruct: "Construct structure",

	OpAssign:                  "move second child to first child",
	OpInitialize:              "initialize first child with second child",
	OpAddAssign:               "add second child into first child",
	OpSubAssign:               "subtract second child into first child",
	OpMulAssign:               "multiply second child into first child",
	OpVectorTimesMatrixAssign: "matrix mult second child into first child",
	OpVectorTimesScalarAssign: "vector scale second child into first child",
	OpMatrixTimesScalarAssign: "matrix scale second child into first child",
	OpMatrixTimesMatrixAssign: "matrix mult second child into first child",
	OpDivAssign:               "divide second child into first child",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "unknown operator"
}

// IsAssignment reports whether op writes its first operand.
func (op Operator) IsAssignment() bool {
	switch op {
	case OpAssign, OpInitialize, OpAddAssign, OpSubAssign, OpMulAssign,
		OpVectorTimesMatrixAssign, OpVectorTimesScalarAssign,
		OpMatrixTimesScalarAssign, OpMatrixTimesMatrixAssign, OpDivAssign,
		OpPostIncrement, OpPostDecrement, OpPreIncrement, OpPreDecrement:
		return true
	}
	return false
}

// IsConstructor reports whether op builds a value from its arguments.
func (op Operator) IsConstructor() bool {
	return op >= OpConstructInt && op <= OpConstructStruct
}

// IsRelational reports whether op is one of the six scalar comparisons.
func (op Operator) IsRelational() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpGreaterThan, OpLessThanEqual, OpGreaterThanEqual:
		return true
	}
	return false
}
