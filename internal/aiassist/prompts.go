package aiassist

const systemPrompt = "你是一位资深的AI招聘助手，擅长从中文简历中提取信息、分析简历与岗位的匹配度。只返回 JSON，不要其他内容。"

const extractionPromptTemplate = `请从以下简历文本中提取关键信息，以 JSON 格式返回：

简历文本：
%s

请提取以下信息并以 JSON 格式返回：
{
    "basic_info": {
        "name": "姓名",
        "phone": "手机号",
        "email": "邮箱",
        "address": "地址"
    },
    "optional_info": {
        "job_intention": "求职意向",
        "experience_years": "工作年限，如 3年",
        "education": "最高学历",
        "university": "毕业院校"
    },
    "skills": ["技能1", "技能2"]
}

只返回 JSON，不要其他内容。如果某个字段无法提取，设为 null。`

const matchPromptTemplate = `请分析以下简历与岗位描述的匹配程度，以 JSON 格式返回。

岗位描述：
%s

简历内容：
%s

返回格式：
{
    "score": 0到100之间的整数，表示整体匹配度,
    "overall_analysis": "整体评价，100字以内",
    "skill_analysis": "技能匹配分析",
    "experience_analysis": "经验匹配分析",
    "education_analysis": "学历匹配分析",
    "strengths": ["优势1", "优势2"],
    "weaknesses": ["不足1", "不足2"],
    "recommendations": ["建议1", "建议2"]
}

只返回 JSON，不要其他内容。`
