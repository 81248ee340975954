package syntax

import "fmt"

// Kind identifies the grammar production a syntax node represents.
// Tokens carry their own lexer.TokenType; Kind is for nodes only.
type Kind uint16

const (
	// Roots
	KindRhai    Kind = iota // script source file
	KindRhaiDef             // definition source file

	// Structure
	KindStmt
	KindItem
	KindError // recovery placeholder covering skipped tokens

	// Expressions
	KindExprIdent
	KindExprPath
	KindExprLit
	KindExprLet
	KindExprConst
	KindExprBlock
	KindExprUnary
	KindExprBinary
	KindExprParen
	KindExprArray
	KindExprIndex
	KindExprObject
	KindExprCall
	KindExprClosure
	KindExprIf
	KindExprLoop
	KindExprFor
	KindExprWhile
	KindExprDo
	KindExprBreak
	KindExprContinue
	KindExprReturn
	KindExprSwitch
	KindExprFn
	KindExprExport
	KindExprImport
	KindExprTry
	KindExprThrow

	// Expression helpers
	KindPath
	KindLit
	KindLitStrTemplate
	KindLitStrTemplateInterpolation
	KindObjectField
	KindArgList
	KindParamList
	KindParam
	KindPat
	KindPatTuple
	KindSwitchArmList
	KindSwitchArm
	KindSwitchArmCondition
	KindExportIdent

	// Definition grammar
	KindDefModuleDecl
	KindDefStmt
	KindDefItem
	KindDefModule
	KindDefImport
	KindDefConst
	KindDefLet
	KindDefFn
	KindDefOp
	KindDefOpPrecedence
	KindDefType
	KindTypedParamList
	KindTypedParam

	// Types (definition files)
	KindTypeIdent
	KindTypeList
	KindTypeTuple
	KindTypeObject
	KindTypeObjectField
	KindTypeUnknown
)

var kindNames = [...]string{
	KindRhai:                        "RHAI",
	KindRhaiDef:                     "RHAI_DEF",
	KindStmt:                        "STMT",
	KindItem:                        "ITEM",
	KindError:                       "ERROR",
	KindExprIdent:                   "EXPR_IDENT",
	KindExprPath:                    "EXPR_PATH",
	KindExprLit:                     "EXPR_LIT",
	KindExprLet:                     "EXPR_LET",
	KindExprConst:                   "EXPR_CONST",
	KindExprBlock:                   "EXPR_BLOCK",
	KindExprUnary:                   "EXPR_UNARY",
	KindExprBinary:                  "EXPR_BINARY",
	KindExprParen:                   "EXPR_PAREN",
	KindExprArray:                   "EXPR_ARRAY",
	KindExprIndex:                   "EXPR_INDEX",
	KindExprObject:                  "EXPR_OBJECT",
	KindExprCall:                    "EXPR_CALL",
	KindExprClosure:                 "EXPR_CLOSURE",
	KindExprIf:                      "EXPR_IF",
	KindExprLoop:                    "EXPR_LOOP",
	KindExprFor:                     "EXPR_FOR",
	KindExprWhile:                   "EXPR_WHILE",
	KindExprDo:                      "EXPR_DO",
	KindExprBreak:                   "EXPR_BREAK",
	KindExprContinue:                "EXPR_CONTINUE",
	KindExprReturn:                  "EXPR_RETURN",
	KindExprSwitch:                  "EXPR_SWITCH",
	KindExprFn:                      "EXPR_FN",
	KindExprExport:                  "EXPR_EXPORT",
	KindExprImport:                  "EXPR_IMPORT",
	KindExprTry:                     "EXPR_TRY",
	KindExprThrow:                   "EXPR_THROW",
	KindPath:                        "PATH",
	KindLit:                         "LIT",
	KindLitStrTemplate:              "LIT_STR_TEMPLATE",
	KindLitStrTemplateInterpolation: "LIT_STR_TEMPLATE_INTERPOLATION",
	KindObjectField:                 "OBJECT_FIELD",
	KindArgList:                     "ARG_LIST",
	KindParamList:                   "PARAM_LIST",
	KindParam:                       "PARAM",
	KindPat:                         "PAT",
	KindPatTuple:                    "PAT_TUPLE",
	KindSwitchArmList:               "SWITCH_ARM_LIST",
	KindSwitchArm:                   "SWITCH_ARM",
	KindSwitchArmCondition:          "SWITCH_ARM_CONDITION",
	KindExportIdent:                 "EXPORT_IDENT",
	KindDefModuleDecl:               "DEF_MODULE_DECL",
	KindDefStmt:                     "DEF_STMT",
	KindDefItem:                     "DEF_ITEM",
	KindDefModule:                   "DEF_MODULE",
	KindDefImport:                   "DEF_IMPORT",
	KindDefConst:                    "DEF_CONST",
	KindDefLet:                      "DEF_LET",
	KindDefFn:                       "DEF_FN",
	KindDefOp:                       "DEF_OP",
	KindDefOpPrecedence:             "DEF_OP_PRECEDENCE",
	KindDefType:                     "DEF_TYPE",
	KindTypedParamList:              "TYPED_PARAM_LIST",
	KindTypedParam:                  "TYPED_PARAM",
	KindTypeIdent:                   "TYPE_IDENT",
	KindTypeList:                    "TYPE_LIST",
	KindTypeTuple:                   "TYPE_TUPLE",
	KindTypeObject:                  "TYPE_OBJECT",
	KindTypeObjectField:             "TYPE_OBJECT_FIELD",
	KindTypeUnknown:                 "TYPE_UNKNOWN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// IsExpr reports whether the kind is an expression production.
func (k Kind) IsExpr() bool {
	return k >= KindExprIdent && k <= KindExprThrow
}
