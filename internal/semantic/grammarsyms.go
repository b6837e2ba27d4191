package semantic

// Grammar symbol names the checker dispatches on. These match the
// non-terminal and terminal names used by the default grammar/lexer
// definition files under config/.
const (
	NTProgram        = "prijevodna_jedinica"
	NTExternalDecl   = "vanjska_deklaracija"
	NTFuncDef        = "definicija_funkcije"
	NTDecl           = "deklaracija"
	NTInitDeclList   = "lista_init_deklaratora"
	NTInitDecl       = "init_deklarator"
	NTTypeName       = "ime_tipa"
	NTTypeSpec       = "specifikator_tipa"
	NTParamList      = "lista_parametara"
	NTParamDecl      = "deklaracija_parametra"
	NTCompoundStmt   = "slozena_naredba"
	NTStmtList       = "lista_naredbi"
	NTStmt           = "naredba"
	NTExprStmt       = "izraz_naredba"
	NTExprList       = "lista_izraza"
	NTBranchStmt     = "naredba_grananja"
	NTLoopStmt       = "naredba_petlje"
	NTJumpStmt       = "naredba_skoka"
	NTAssignExpr     = "izraz_pridruzivanja"
	NTOrExpr         = "izraz_ili"
	NTAndExpr        = "izraz_i"
	NTEqExpr         = "izraz_jednakosti"
	NTRelExpr        = "izraz_odnosa"
	NTAddExpr        = "aditivni_izraz"
	NTMulExpr        = "multiplikativni_izraz"
	NTCastExpr       = "cast_izraz"
	NTUnaryExpr      = "unarni_izraz"
	NTUnaryOp        = "unarni_operator"
	NTPostfixExpr    = "postfiks_izraz"
	NTPrimaryExpr    = "primarni_izraz"

	TIdn        = "IDN"
	TBroj       = "BROJ"
	TZnak       = "ZNAK"
	TNiz        = "NIZ_ZNAKOVA"
	TKrInt      = "KR_INT"
	TKrChar     = "KR_CHAR"
	TKrVoid     = "KR_VOID"
	TKrConst    = "KR_CONST"
	TKrIf       = "KR_IF"
	TKrElse     = "KR_ELSE"
	TKrWhile    = "KR_WHILE"
	TKrFor      = "KR_FOR"
	TKrBreak    = "KR_BREAK"
	TKrContinue = "KR_CONTINUE"
	TKrReturn   = "KR_RETURN"
	TLZagrada   = "L_ZAGRADA"
	TDZagrada   = "D_ZAGRADA"
	TLVitZagrada = "L_VIT_ZAGRADA"
	TDVitZagrada = "D_VIT_ZAGRADA"
	TLUglZagrada = "L_UGL_ZAGRADA"
	TDUglZagrada = "D_UGL_ZAGRADA"
	TTockaZarez = "TOCKAZAREZ"
	TZarez      = "ZAREZ"
	TOpPridruzi = "OP_PRIDRUZI"
	TOpIli      = "OP_ILI"
	TOpI        = "OP_I"
	TOpEq       = "OP_JEDNAKO"
	TOpNeq      = "OP_NIJEJEDNAKO"
	TOpLt       = "OP_LT"
	TOpGt       = "OP_GT"
	TOpLeq      = "OP_LEQ"
	TOpGeq      = "OP_GEQ"
	TPlus       = "PLUS"
	TMinus      = "MINUS"
	TPuta       = "OP_PUTA"
	TDijeli     = "OP_DIJELI"
	TMod        = "OP_MOD"
	TInc        = "OP_INC"
	TDec        = "OP_DEC"
	TTilda      = "OP_TILDA"
	TNeg        = "OP_NEG"
)
