package qir

// Parse tree for the textual intermediate representation. The shapes mirror
// the surface syntax; resolveModule lowers them into the Module model.

type File struct {
	Decls []*TopDecl `parser:"@@*"`
}

type TopDecl struct {
	Source   *SourceFilename `parser:"  @@"`
	Target   *TargetDecl     `parser:"| @@"`
	TypeDecl *TypeDecl       `parser:"| @@"`
	Declare  *FuncDecl       `parser:"| @@"`
	Define   *FuncDef        `parser:"| @@"`
	Attrs    *AttrGroup      `parser:"| @@"`
}

type SourceFilename struct {
	Name string `parser:"\"source_filename\" \"=\" @String"`
}

type TargetDecl struct {
	Kind  string `parser:"\"target\" @(\"triple\" | \"datalayout\")"`
	Value string `parser:"\"=\" @String"`
}

type TypeDecl struct {
	Name string `parser:"@LocalIdent \"=\" \"type\" \"opaque\""`
}

type FuncDecl struct {
	Ret     *TypeRef     `parser:"\"declare\" @@"`
	Name    string       `parser:"@GlobalIdent"`
	Params  []*ParamDecl `parser:"\"(\" [ @@ { \",\" @@ } ] \")\""`
	AttrRef *string      `parser:"[ @AttrGroupID ]"`
}

type FuncDef struct {
	Linkage string       `parser:"\"define\" [ @(\"internal\" | \"private\") ]"`
	Ret     *TypeRef     `parser:"@@"`
	Name    string       `parser:"@GlobalIdent"`
	Params  []*ParamDecl `parser:"\"(\" [ @@ { \",\" @@ } ] \")\""`
	AttrRef *string      `parser:"[ @AttrGroupID ]"`
	Blocks  []*Block     `parser:"\"{\" @@* \"}\""`
}

type ParamDecl struct {
	Type *TypeRef `parser:"@@"`
	Name string   `parser:"[ @LocalIdent ]"`
}

type AttrGroup struct {
	ID    string      `parser:"\"attributes\" @AttrGroupID \"=\" \"{\""`
	Attrs []*AttrItem `parser:"@@* \"}\""`
}

type AttrItem struct {
	Key   string  `parser:"@(String | Ident)"`
	Value *string `parser:"[ \"=\" @String ]"`
}

type Block struct {
	Label  string   `parser:"@Ident \":\""`
	Instrs []*Instr `parser:"@@*"`
}

type Instr struct {
	Assign   *AssignInstr `parser:"  @@"`
	VoidCall *CallExpr    `parser:"| @@"`
	CondBr   *CondBrInstr `parser:"| @@"`
	Br       *BrInstr     `parser:"| @@"`
	Ret      *RetInstr    `parser:"| @@"`
}

type AssignInstr struct {
	Result string   `parser:"@LocalIdent \"=\""`
	Value  *RHSExpr `parser:"@@"`
}

type RHSExpr struct {
	Call *CallExpr `parser:"  @@"`
	Cmp  *CmpExpr  `parser:"| @@"`
	Bin  *BinExpr  `parser:"| @@"`
}

type CallExpr struct {
	Tail   bool            `parser:"[ @\"tail\" ] \"call\""`
	Ret    *TypeRef        `parser:"@@"`
	Callee string          `parser:"@GlobalIdent"`
	Args   []*TypedOperand `parser:"\"(\" [ @@ { \",\" @@ } ] \")\""`
}

type BinExpr struct {
	Op   string       `parser:"@(\"add\" | \"sub\" | \"mul\" | \"sdiv\" | \"and\" | \"or\" | \"xor\")"`
	Type *TypeRef     `parser:"@@"`
	L    *OperandExpr `parser:"@@"`
	R    *OperandExpr `parser:"\",\" @@"`
}

type CmpExpr struct {
	Pred string       `parser:"\"icmp\" @(\"eq\" | \"ne\" | \"slt\" | \"sgt\" | \"sle\" | \"sge\")"`
	Type *TypeRef     `parser:"@@"`
	L    *OperandExpr `parser:"@@"`
	R    *OperandExpr `parser:"\",\" @@"`
}

type CondBrInstr struct {
	Cond  *OperandExpr `parser:"\"br\" \"i1\" @@"`
	True  string       `parser:"\",\" \"label\" @LocalIdent"`
	False string       `parser:"\",\" \"label\" @LocalIdent"`
}

type BrInstr struct {
	Dest string `parser:"\"br\" \"label\" @LocalIdent"`
}

type RetInstr struct {
	Type *TypeRef     `parser:"\"ret\" @@"`
	Val  *OperandExpr `parser:"[ @@ ]"`
}

type TypedOperand struct {
	Type *TypeRef     `parser:"@@"`
	Val  *OperandExpr `parser:"@@"`
}

type OperandExpr struct {
	IntToPtr *IntToPtrExpr `parser:"  @@"`
	Bool     *string       `parser:"| @(\"true\" | \"false\")"`
	Null     bool          `parser:"| @\"null\""`
	Float    *float64      `parser:"| @Float"`
	Int      *int64        `parser:"| @Integer"`
	Local    *string       `parser:"| @LocalIdent"`
}

// IntToPtrExpr covers the constant-expression spelling used for static qubit
// and result identifiers, e.g. `inttoptr (i64 2 to %Qubit*)`.
type IntToPtrExpr struct {
	SrcType string   `parser:"\"inttoptr\" \"(\" @IntType"`
	Value   int64    `parser:"@Integer"`
	Target  *TypeRef `parser:"\"to\" @@ \")\""`
}

type TypeRef struct {
	Base  string   `parser:"@(\"void\" | \"double\" | IntType | LocalIdent)"`
	Stars []string `parser:"{ @\"*\" }"`
}
